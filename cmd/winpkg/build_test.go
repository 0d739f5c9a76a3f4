// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/winpkg/winpkg/internal/testutil"
	"github.com/winpkg/winpkg/pkg/types"
)

func TestBuild_Banner(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)
	out := filepath.Join(t.TempDir(), "dist")
	runner := &fakeRunner{}

	res := run(t, Dependencies{Runner: runner}, "build", dir, "--out", out)
	if res.err != nil {
		t.Fatalf("build error = %v\nstderr: %s", res.err, res.stderr)
	}

	if _, err := os.Stat(msiPath(out)); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if !strings.Contains(res.stdout, msiPath(out)) {
		t.Errorf("stdout = %q, want artifact path", res.stdout)
	}
	if !strings.Contains(res.stdout, "sha256:") {
		t.Errorf("stdout = %q, want digest", res.stdout)
	}

	if runner.callCount() != 1 {
		t.Fatalf("compiler calls = %d, want 1", runner.callCount())
	}
	args := runner.calls[0]
	if args[0] != "/usr/local/bin/wix" || args[1] != "build" {
		t.Errorf("invocation = %v, want wix build ...", args)
	}
	if i := slices.Index(args, "-arch"); i < 0 || args[i+1] != "x64" {
		t.Errorf("invocation = %v, want -arch x64", args)
	}
}

func TestBuild_ReportsEveryProblemWithoutCompiling(t *testing.T) {
	t.Parallel()

	// Bad package id and no payload on disk: both must be listed.
	dir := t.TempDir()
	def := strings.Replace(testutil.BannerYAML, testutil.BannerPackageID, "not-a-uuid", 1)
	testutil.WriteDefinition(t, dir, "winpkg.yaml", def)
	runner := &fakeRunner{}

	res := run(t, Dependencies{Runner: runner}, "build", dir)
	wantExitCode(t, res.err, types.ExitFailure)

	if !strings.Contains(res.stderr, "not-a-uuid") {
		t.Errorf("stderr = %q, want package id problem", res.stderr)
	}
	if !strings.Contains(res.stderr, "ClassificationBanner.exe") {
		t.Errorf("stderr = %q, want missing source problem", res.stderr)
	}
	if runner.callCount() != 0 {
		t.Errorf("compiler called %d times for an invalid definition", runner.callCount())
	}
}

func TestBuild_DryRun(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)
	runner := &fakeRunner{}

	res := run(t, Dependencies{Runner: runner}, "build", dir, "--dry-run")
	if res.err != nil {
		t.Fatalf("build --dry-run error = %v\nstderr: %s", res.err, res.stderr)
	}

	for _, want := range []string{"UpgradeCode", "ProgramFiles64Folder", "wix build -arch x64"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if runner.callCount() != 0 {
		t.Errorf("compiler called during dry run")
	}
	if _, err := os.Stat(msiPath(dir)); !os.IsNotExist(err) {
		t.Errorf("dry run wrote an artifact (stat err = %v)", err)
	}
}

func TestBuild_ExeAndOutputNameOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteDefinition(t, dir, "winpkg.cue", testutil.BannerCUE)
	exe := testutil.WritePayload(t, t.TempDir(), "bin/Banner-ci.exe")

	res := run(t, Dependencies{}, "build", dir, "--exe", exe, "--output-name", "Banner-ci", "--dry-run")
	if res.err != nil {
		t.Fatalf("build error = %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "Banner-ci.msi") {
		t.Errorf("stdout = %q, want output name override", res.stdout)
	}
	// The destination name is kept so the Run value still resolves.
	if !strings.Contains(res.stdout, `Name="ClassificationBanner.exe"`) {
		t.Errorf("stdout = %q, want original destination name", res.stdout)
	}
}

func TestBuild_CompilerNotFound(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)

	res := run(t, Dependencies{Runner: &fakeRunner{missing: true}}, "build", dir)
	wantExitCode(t, res.err, types.ExitFailure)

	if !strings.Contains(res.stderr, "winpkg explain compiler-not-found") {
		t.Errorf("stderr = %q, want pointer to compiler-not-found", res.stderr)
	}
}

func TestBuild_CompilerFailureLeavesNoArtifact(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)

	res := run(t, Dependencies{Runner: &fakeRunner{fail: true}}, "build", dir)
	wantExitCode(t, res.err, types.ExitFailure)

	if !strings.Contains(res.stderr, "WIX0103") {
		t.Errorf("stderr = %q, want compiler output", res.stderr)
	}
	if _, err := os.Stat(msiPath(dir)); !os.IsNotExist(err) {
		t.Errorf("artifact left behind after failure (stat err = %v)", err)
	}
}

func TestBuild_DefinitionNotFound(t *testing.T) {
	t.Parallel()

	res := run(t, Dependencies{}, "build", t.TempDir())
	wantExitCode(t, res.err, types.ExitFailure)

	if !strings.Contains(res.stderr, "winpkg explain definition-not-found") {
		t.Errorf("stderr = %q, want pointer to definition-not-found", res.stderr)
	}
}

func TestBuild_WatchRebuildsOnPayloadChange(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)
	runner := &fakeRunner{}
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	done := make(chan result, 1)
	go func() {
		done <- runContext(t, ctx, Dependencies{Runner: runner}, "build", dir, "--watch")
	}()

	waitFor(t, func() bool { return runner.callCount() == 1 })
	// Give the watcher time to register before touching the payload.
	time.Sleep(200 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(dir, filepath.FromSlash("dist/Windows/ClassificationBanner.exe")), []byte("MZ rebuilt"))
	waitFor(t, func() bool { return runner.callCount() == 2 })

	cancel()
	res := <-done
	if res.err != nil {
		t.Fatalf("build --watch error = %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "rebuilding") {
		t.Errorf("stdout = %q, want rebuild notice", res.stdout)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
