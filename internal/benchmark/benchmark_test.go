// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/winpkg/winpkg/internal/testutil"
	"github.com/winpkg/winpkg/internal/wix"
	"github.com/winpkg/winpkg/pkg/emitter"
	"github.com/winpkg/winpkg/pkg/pkgdef"
	"github.com/winpkg/winpkg/pkg/types"
)

const largePayloadCount = 200

// largeManifest builds a manifest with payloads spread over nested
// directories plus one registry value per directory.
func largeManifest(b *testing.B) *pkgdef.Manifest {
	b.Helper()

	root := b.TempDir()
	builder := pkgdef.NewBuilder(pkgdef.NewBuildContext(types.FilesystemPath(root)))
	_ = builder.WithIdentity(testutil.BannerName, testutil.BannerPackageID, testutil.BannerManufacturer, pkgdef.MustParseVersion(testutil.BannerVersion))
	_ = builder.WithInstallDir(testutil.BannerInstallDir)
	_ = builder.WithOutputName(testutil.BannerOutputName)

	for i := range largePayloadCount {
		dir := fmt.Sprintf(`lib\group%02d`, i%10)
		rel := fmt.Sprintf("payload/%s/file%03d.dll", filepath.ToSlash(dir), i)
		testutil.WritePayload(b, root, rel)
		if err := builder.AddPayload(dir, rel, ""); err != nil {
			b.Fatalf("AddPayload: %v", err)
		}
	}
	for i := range 10 {
		key := fmt.Sprintf(`Software\Department of War\ClassificationBanner\Group%02d`, i)
		if err := builder.AddRegistryEntry(pkgdef.HiveLocalMachine, key, "Path", `[INSTALLDIR]lib`); err != nil {
			b.Fatalf("AddRegistryEntry: %v", err)
		}
	}

	m, err := builder.Build()
	if err != nil {
		b.Fatalf("Build: %v", err)
	}
	return m
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		format  pkgdef.Format
		content string
	}{
		{pkgdef.FormatCUE, testutil.BannerCUE},
		{pkgdef.FormatYAML, testutil.BannerYAML},
		{pkgdef.FormatTOML, testutil.BannerTOML},
		{pkgdef.FormatHCL, testutil.BannerHCL},
	}
	for _, c := range cases {
		data := []byte(c.content)
		b.Run(string(c.format), func(b *testing.B) {
			for b.Loop() {
				if _, err := pkgdef.ParseBytes(data, c.format, "winpkg."+string(c.format)); err != nil {
					b.Fatalf("ParseBytes failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkLoad covers parse plus assembly, including the source checks.
func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	testutil.WriteBannerPayload(b, dir)
	path := types.FilesystemPath(testutil.WriteDefinition(b, dir, "winpkg.cue", testutil.BannerCUE))

	for b.Loop() {
		if _, _, err := pkgdef.Load(path, ""); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

func BenchmarkValidateLarge(b *testing.B) {
	m := largeManifest(b)

	for b.Loop() {
		if errs := pkgdef.Validate(m); errs.HasErrors() {
			b.Fatalf("Validate: %v", errs)
		}
	}
}

func BenchmarkRenderLarge(b *testing.B) {
	m := largeManifest(b)

	for b.Loop() {
		if _, err := wix.Render(m); err != nil {
			b.Fatalf("Render: %v", err)
		}
	}
}

// BenchmarkPipeline runs certify, render and a stub emit that writes the
// rendered source as the artifact.
func BenchmarkPipeline(b *testing.B) {
	m := largeManifest(b)
	out := filepath.Join(b.TempDir(), "out.msi")
	stub := emitter.Func(func(_ context.Context, v *pkgdef.Validated) (emitter.Artifact, error) {
		src, err := wix.Render(v.Manifest())
		if err != nil {
			return emitter.Artifact{}, err
		}
		if err := os.WriteFile(out, src, 0o644); err != nil {
			return emitter.Artifact{}, err
		}
		return emitter.Describe(types.FilesystemPath(out))
	})
	ctx := context.Background()

	for b.Loop() {
		if _, _, err := emitter.Run(ctx, stub, m); err != nil {
			b.Fatalf("Run: %v", err)
		}
	}
}
