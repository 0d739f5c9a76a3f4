// SPDX-License-Identifier: MPL-2.0

package wix

import (
	"encoding/xml"
	"path/filepath"
	"strings"
	"testing"

	"github.com/winpkg/winpkg/internal/testutil"
	"github.com/winpkg/winpkg/pkg/pkgdef"
	"github.com/winpkg/winpkg/pkg/types"
)

func bannerManifest(t *testing.T) (*pkgdef.Manifest, string) {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteBannerPayload(t, dir)
	path := testutil.WriteDefinition(t, dir, "winpkg.cue", testutil.BannerCUE)
	_, m, err := pkgdef.Load(types.FilesystemPath(path), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m, dir
}

func renderDoc(t *testing.T, m *pkgdef.Manifest) (document, string) {
	t.Helper()

	src, err := Render(m)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var doc document
	if err := xml.Unmarshal(src, &doc); err != nil {
		t.Fatalf("Render() produced invalid XML: %v\n%s", err, src)
	}
	return doc, string(src)
}

func TestRender_ClassificationBanner(t *testing.T) {
	t.Parallel()

	m, dir := bannerManifest(t)
	doc, src := renderDoc(t, m)

	if !strings.Contains(src, `xmlns="`+Namespace+`"`) {
		t.Errorf("missing WiX namespace:\n%s", src)
	}

	p := doc.Package
	if p.Name != testutil.BannerName || p.Manufacturer != testutil.BannerManufacturer || p.Version != testutil.BannerVersion {
		t.Errorf("Package = %s/%s/%s", p.Name, p.Manufacturer, p.Version)
	}
	if p.UpgradeCode != "{F302F7D2-BD3A-4D3A-886F-243C0EF39A24}" {
		t.Errorf("UpgradeCode = %q", p.UpgradeCode)
	}
	if p.Scope != "perMachine" || p.MediaTemplate.EmbedCab != "yes" {
		t.Errorf("Scope = %q, EmbedCab = %q", p.Scope, p.MediaTemplate.EmbedCab)
	}
	if p.Root.ID != "ProgramFiles64Folder" {
		t.Errorf("StandardDirectory = %q, want ProgramFiles64Folder for x64", p.Root.ID)
	}

	if len(p.Root.Directories) != 1 || p.Root.Directories[0].Name != "Department of War" {
		t.Fatalf("root directories = %+v", p.Root.Directories)
	}
	install := p.Root.Directories[0].Directories[0]
	if install.ID != installDirID || install.Name != "ClassificationBanner" {
		t.Errorf("install dir = %s/%s", install.ID, install.Name)
	}
	if len(install.Components) != 2 {
		t.Fatalf("install components = %+v, want file and registry", install.Components)
	}

	f := install.Components[0].File
	wantSource := filepath.Join(dir, "dist", "Windows", "ClassificationBanner.exe")
	if f == nil || f.Name != testutil.BannerExe || f.Source != wantSource {
		t.Errorf("file = %+v, want source %s", f, wantSource)
	}

	reg := install.Components[1].Registry
	if reg == nil || reg.Root != "HKLM" || reg.Key != pkgdef.RunKeyPath || reg.Name != "ClassificationBanner" {
		t.Fatalf("registry = %+v", reg)
	}
	if reg.Value != testutil.BannerRunValue {
		t.Errorf("registry value = %q, want %q", reg.Value, testutil.BannerRunValue)
	}

	if len(p.Feature.Refs) != 2 {
		t.Errorf("feature refs = %+v", p.Feature.Refs)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	m, _ := bannerManifest(t)
	first, err := Render(m)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, _ := Render(m)
	if string(first) != string(second) {
		t.Error("Render() output differs between calls")
	}
}

func TestRender_ArchitectureFolders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		folder pkgdef.KnownFolder
		arch   pkgdef.Architecture
		want   string
	}{
		{pkgdef.FolderProgramFiles, pkgdef.ArchX64, "ProgramFiles64Folder"},
		{pkgdef.FolderProgramFiles, pkgdef.ArchARM64, "ProgramFiles64Folder"},
		{pkgdef.FolderProgramFiles, pkgdef.ArchX86, "ProgramFilesFolder"},
		{pkgdef.FolderProgramFilesX86, pkgdef.ArchX64, "ProgramFilesFolder"},
		{pkgdef.FolderProgramFiles64, pkgdef.ArchX86, "ProgramFiles64Folder"},
		{pkgdef.FolderLocalAppData, pkgdef.ArchX64, "LocalAppDataFolder"},
		{pkgdef.FolderAppData, pkgdef.ArchX64, "AppDataFolder"},
		{pkgdef.FolderCommonAppData, pkgdef.ArchX64, "CommonAppDataFolder"},
	}
	for _, tt := range tests {
		if got := StandardDirectoryID(tt.folder, tt.arch); got != tt.want {
			t.Errorf("StandardDirectoryID(%s, %s) = %q, want %q", tt.folder, tt.arch, got, tt.want)
		}
	}
}

func TestRender_FileReferences(t *testing.T) {
	t.Parallel()

	m, _ := bannerManifest(t)
	install := m.InstallDirNode()
	install.Registry[0].ValueData = `"[#ClassificationBanner.exe]" --tray [#unknown.exe]`

	doc, _ := renderDoc(t, m)
	comps := doc.Package.Root.Directories[0].Directories[0].Components
	fileID := comps[0].File.ID
	want := `"[#` + fileID + `]" --tray [#unknown.exe]`
	if got := comps[1].Registry.Value; got != want {
		t.Errorf("registry value = %q, want %q", got, want)
	}
}

func TestID(t *testing.T) {
	t.Parallel()

	a := id("dir", []string{"%ProgramFiles%", "Department of War"})
	b := id("dir", []string{"%ProgramFiles%", "department of war"})
	c := id("dir", []string{"%ProgramFiles%", "Other"})
	if a != b {
		t.Errorf("ids differ by case: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different paths produced the same id")
	}
	if !strings.HasPrefix(a, "dir_department_of_war_") {
		t.Errorf("id = %q", a)
	}

	long := id("fil", []string{strings.Repeat("x", 200)})
	if len(long) > 72 {
		t.Errorf("id length = %d, want <= 72", len(long))
	}
}

func TestRender_RequiresRoot(t *testing.T) {
	t.Parallel()

	if _, err := Render(&pkgdef.Manifest{}); err == nil {
		t.Error("Render() accepted a manifest without an install tree")
	}
}
