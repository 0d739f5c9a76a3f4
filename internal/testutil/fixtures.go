// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"strings"
	"testing"
)

// Reference package: the Classification Banner installer.
const (
	BannerName         = "Classification Banner"
	BannerPackageID    = "f302f7d2-bd3a-4d3a-886f-243c0ef39a24"
	BannerManufacturer = "Department of War"
	BannerVersion      = "1.3.0.0"
	BannerInstallDir   = `%ProgramFiles%\Department of War\ClassificationBanner`
	BannerExe          = "ClassificationBanner.exe"
	BannerSource       = `dist\Windows\ClassificationBanner.exe`
	BannerOutputName   = "ClassificationBanner-Setup"
	BannerRunValue     = `"[INSTALLDIR]ClassificationBanner.exe"`
)

// Reference definition in each supported format. Sources are relative to
// the definition's directory; pair with WriteBannerPayload.
const (
	BannerCUE = `name:         "Classification Banner"
package_id:   "f302f7d2-bd3a-4d3a-886f-243c0ef39a24"
manufacturer: "Department of War"
version:      "1.3.0.0"
scope:        "perMachine"
architecture: "x64"
output_name:  "ClassificationBanner-Setup"
install_dir:  "%ProgramFiles%\\Department of War\\ClassificationBanner"
files: [{source: "dist\\Windows\\ClassificationBanner.exe"}]
registry: [{
	hive:  "LocalMachine"
	key:   "Software\\Microsoft\\Windows\\CurrentVersion\\Run"
	name:  "ClassificationBanner"
	value: "\"[INSTALLDIR]ClassificationBanner.exe\""
}]
`

	BannerYAML = `name: Classification Banner
package_id: f302f7d2-bd3a-4d3a-886f-243c0ef39a24
manufacturer: Department of War
version: "1.3.0.0"
scope: perMachine
architecture: x64
output_name: ClassificationBanner-Setup
install_dir: '%ProgramFiles%\Department of War\ClassificationBanner'
files:
  - source: 'dist\Windows\ClassificationBanner.exe'
registry:
  - hive: LocalMachine
    key: 'Software\Microsoft\Windows\CurrentVersion\Run'
    name: ClassificationBanner
    value: '"[INSTALLDIR]ClassificationBanner.exe"'
`

	BannerTOML = `name = "Classification Banner"
package_id = "f302f7d2-bd3a-4d3a-886f-243c0ef39a24"
manufacturer = "Department of War"
version = "1.3.0.0"
scope = "perMachine"
architecture = "x64"
output_name = "ClassificationBanner-Setup"
install_dir = '%ProgramFiles%\Department of War\ClassificationBanner'

[[files]]
source = 'dist\Windows\ClassificationBanner.exe'

[[registry]]
hive = "LocalMachine"
key = 'Software\Microsoft\Windows\CurrentVersion\Run'
name = "ClassificationBanner"
value = '"[INSTALLDIR]ClassificationBanner.exe"'
`

	BannerHCL = `name         = "Classification Banner"
package_id   = "f302f7d2-bd3a-4d3a-886f-243c0ef39a24"
manufacturer = "Department of War"
version      = "1.3.0.0"
scope        = "perMachine"
architecture = "x64"
output_name  = "ClassificationBanner-Setup"
install_dir  = "%ProgramFiles%\\Department of War\\ClassificationBanner"

file {
  source = "dist\\Windows\\ClassificationBanner.exe"
}

registry {
  hive  = "LocalMachine"
  key   = "Software\\Microsoft\\Windows\\CurrentVersion\\Run"
  name  = "ClassificationBanner"
  value = "\"[INSTALLDIR]ClassificationBanner.exe\""
}
`
)

// payloadBytes starts like a PE image so the fixture looks like an executable.
var payloadBytes = []byte("MZ\x90\x00winpkg test payload\n")

// WritePayload writes a small fixture file at root/rel (rel may use either
// separator) and returns its host path.
func WritePayload(t testing.TB, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/")))
	MustWriteFile(t, path, payloadBytes)
	return path
}

// WriteBannerPayload writes the reference executable under root.
func WriteBannerPayload(t testing.TB, root string) string {
	t.Helper()
	return WritePayload(t, root, BannerSource)
}

// WriteDefinition writes content to dir/name and returns the path.
func WriteDefinition(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	MustWriteFile(t, path, []byte(content))
	return path
}
