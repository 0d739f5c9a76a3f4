// SPDX-License-Identifier: MPL-2.0

package platform

// runtime.GOOS values winpkg branches on. Config directories differ per OS;
// installers are always built for Windows.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
