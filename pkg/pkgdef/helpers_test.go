// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"testing"

	"github.com/winpkg/winpkg/internal/testutil"
	"github.com/winpkg/winpkg/pkg/types"
)

// bannerBuilder returns a Builder with the reference package fully declared
// and its payload written under a fresh temp dir.
func bannerBuilder(t *testing.T) (*Builder, string) {
	t.Helper()

	root := t.TempDir()
	testutil.WriteBannerPayload(t, root)

	b := NewBuilder(NewBuildContext(types.FilesystemPath(root)))
	mustNoErr(t, b.WithIdentity(testutil.BannerName, testutil.BannerPackageID, testutil.BannerManufacturer, MustParseVersion(testutil.BannerVersion)))
	mustNoErr(t, b.WithScope(ScopePerMachine))
	mustNoErr(t, b.WithArchitecture(ArchX64))
	mustNoErr(t, b.WithOutputName(testutil.BannerOutputName))
	mustNoErr(t, b.WithInstallDir(testutil.BannerInstallDir))
	mustNoErr(t, b.AddPayload("", testutil.BannerSource, ""))
	mustNoErr(t, b.AddRegistryEntry(HiveLocalMachine, RunKeyPath, "ClassificationBanner", testutil.BannerRunValue))
	return b, root
}

func bannerManifest(t *testing.T) *Manifest {
	t.Helper()

	b, _ := bannerBuilder(t)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
