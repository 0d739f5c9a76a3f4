// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/winpkg/winpkg/pkg/fspath"
	"github.com/winpkg/winpkg/pkg/platform"
	"github.com/winpkg/winpkg/pkg/types"
)

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("dist"), "Windows", "ClassificationBanner.exe")
	want := types.FilesystemPath(filepath.Join("dist", "Windows", "ClassificationBanner.exe"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestBase(t *testing.T) {
	t.Parallel()

	if got := fspath.Base(fspath.FromDefinition(`..\..\dist\Windows\ClassificationBanner.exe`)); got != "ClassificationBanner.exe" {
		t.Errorf("Base() = %q, want ClassificationBanner.exe", got)
	}
}

func TestFromDefinition(t *testing.T) {
	t.Parallel()

	got := fspath.FromDefinition(`..\..\dist\Windows\ClassificationBanner.exe`)
	want := types.FilesystemPath(filepath.Join("..", "..", "dist", "Windows", "ClassificationBanner.exe"))
	if got != want {
		t.Errorf("FromDefinition() = %q, want %q", got, want)
	}
}

func TestIsAbs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path types.FilesystemPath
		want bool
	}{
		{`C:\dist\app.exe`, true},
		{`C:/dist/app.exe`, true},
		{`\\server\share\app.exe`, true},
		{`dist\app.exe`, false},
		{"dist/app.exe", false},
	}
	for _, tt := range tests {
		if got := fspath.IsAbs(tt.path); got != tt.want {
			t.Errorf("IsAbs(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if runtime.GOOS != platform.Windows {
		if !fspath.IsAbs("/opt/dist/app.exe") {
			t.Error("expected POSIX absolute path to be absolute")
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	base := types.FilesystemPath(t.TempDir())
	got, err := fspath.Resolve(base, "payload/app.exe")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := types.FilesystemPath(filepath.Join(string(base), "payload", "app.exe"))
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}
