// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/winpkg/winpkg/internal/testutil"
	"github.com/winpkg/winpkg/pkg/types"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		definition string
		file       string
		payload    bool
		wantErr    bool
		wantOutput []string
	}{
		{
			name:       "banner cue",
			definition: testutil.BannerCUE,
			file:       "winpkg.cue",
			payload:    true,
			wantOutput: []string{"is valid", "Classification Banner 1.3.0.0", "1 file(s)"},
		},
		{
			name:       "banner hcl",
			definition: testutil.BannerHCL,
			file:       "winpkg.hcl",
			payload:    true,
			wantOutput: []string{"is valid"},
		},
		{
			name:       "warnings name the definition file",
			definition: strings.Replace(testutil.BannerCUE, `"1.3.0.0"`, `"1.3.0.4"`, 1),
			file:       "winpkg.cue",
			payload:    true,
			wantOutput: []string{"[version]", "winpkg.cue: ", "is valid"},
		},
		{
			name:       "missing payload names the path",
			definition: testutil.BannerTOML,
			file:       "winpkg.toml",
			wantErr:    true,
			wantOutput: []string{`dist\Windows\ClassificationBanner.exe`, "winpkg explain source-missing"},
		},
		{
			name: "duplicate destination",
			definition: strings.Replace(testutil.BannerCUE,
				`files: [{source: "dist\\Windows\\ClassificationBanner.exe"}]`,
				`files: [{source: "dist\\Windows\\ClassificationBanner.exe"}, {source: "dist\\Windows\\ClassificationBanner.exe"}]`, 1),
			file:       "winpkg.cue",
			payload:    true,
			wantErr:    true,
			wantOutput: []string{"ClassificationBanner.exe", "winpkg explain manifest-invalid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.payload {
				testutil.WriteBannerPayload(t, dir)
			}
			path := testutil.WriteDefinition(t, dir, tt.file, tt.definition)

			res := run(t, Dependencies{}, "validate", path)
			output := res.stdout + res.stderr
			if tt.wantErr {
				wantExitCode(t, res.err, types.ExitFailure)
			} else if res.err != nil {
				t.Fatalf("validate error = %v\n%s", res.err, output)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q:\n%s", want, output)
				}
			}
		})
	}
}

func TestValidate_ContextFlag(t *testing.T) {
	t.Parallel()

	defDir := t.TempDir()
	payloadDir := t.TempDir()
	testutil.WriteBannerPayload(t, payloadDir)
	path := testutil.WriteDefinition(t, defDir, "winpkg.cue", testutil.BannerCUE)

	res := run(t, Dependencies{}, "validate", path, "--context", payloadDir)
	if res.err != nil {
		t.Fatalf("validate --context error = %v\n%s", res.err, res.stderr)
	}

	res = run(t, Dependencies{}, "validate", filepath.Dir(path))
	wantExitCode(t, res.err, types.ExitFailure)
}
