// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"errors"
	"testing"
)

func TestScanFormatted(t *testing.T) {
	t.Parallel()

	refs, err := ScanFormatted(`"[INSTALLDIR]bin\[#app.exe]" [\[]x[~]`)
	if err != nil {
		t.Fatalf("ScanFormatted() error = %v", err)
	}

	want := []struct {
		raw  string
		kind byte
	}{
		{"INSTALLDIR", 0},
		{"#app.exe", '#'},
		{`\[`, '\\'},
		{"~", '~'},
	}
	if len(refs) != len(want) {
		t.Fatalf("refs = %+v, want %d", refs, len(want))
	}
	for i, w := range want {
		if refs[i].Raw != w.raw || refs[i].Kind() != w.kind {
			t.Errorf("refs[%d] = %q kind %q, want %q kind %q", i, refs[i].Raw, refs[i].Kind(), w.raw, w.kind)
		}
	}
	if refs[1].Target() != "app.exe" {
		t.Errorf("Target() = %q", refs[1].Target())
	}
}

func TestCheckFormatted(t *testing.T) {
	t.Parallel()

	files := map[string]bool{"classificationbanner.exe": true}
	tests := []struct {
		value    string
		wantErrs int
	}{
		{`"[INSTALLDIR]ClassificationBanner.exe"`, 0},
		{`[ProgramFiles64Folder]Vendor`, 0},
		{`[#ClassificationBanner.exe] --tray`, 0},
		{`[!classificationbanner.EXE]`, 0},
		{`[%PATH%]`, 0},
		{`no references`, 0},
		{`[INSTALLDIR`, 1},
		{`INSTALLDIR]`, 1},
		{`[[INSTALLDIR]]`, 1},
		{`[InstallDir]`, 1},
		{`[#missing.exe]`, 1},
		{`[$Component]`, 1},
		{`[]`, 1},
		{`[Foo] [Bar]`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			errs := CheckFormatted(tt.value, files)
			if len(errs) != tt.wantErrs {
				t.Fatalf("CheckFormatted(%q) = %v, want %d errors", tt.value, errs, tt.wantErrs)
			}
			for _, err := range errs {
				if !errors.Is(err, ErrFormattedString) {
					t.Errorf("error %v does not wrap ErrFormattedString", err)
				}
			}
		})
	}
}
