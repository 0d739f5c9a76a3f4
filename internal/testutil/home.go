// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/winpkg/winpkg/pkg/platform"
)

// SetConfigHome points the user configuration root at dir for the rest of
// the test (APPDATA, HOME or XDG_CONFIG_HOME depending on the OS). It uses
// t.Setenv, so the test cannot be parallel.
func SetConfigHome(t *testing.T, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case platform.Windows:
		t.Setenv("APPDATA", dir)
	case platform.Darwin:
		t.Setenv("HOME", dir)
	default:
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
}
