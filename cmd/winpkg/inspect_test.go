// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/winpkg/winpkg/internal/testutil"
	"github.com/winpkg/winpkg/pkg/types"
)

func TestInspect_JSON(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)

	res := run(t, Dependencies{}, "inspect", dir)
	if res.err != nil {
		t.Fatalf("inspect error = %v\n%s", res.err, res.stderr)
	}

	var doc struct {
		Identity struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"identity"`
		Scope      string   `json:"scope"`
		OutputName string   `json:"output_name"`
		InstallDir []string `json:"install_dir"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, res.stdout)
	}
	if doc.Identity.Name != testutil.BannerName || doc.Identity.Version != testutil.BannerVersion {
		t.Errorf("identity = %+v", doc.Identity)
	}
	if doc.Scope != "perMachine" || doc.OutputName != testutil.BannerOutputName {
		t.Errorf("scope = %q, output_name = %q", doc.Scope, doc.OutputName)
	}
	if strings.Join(doc.InstallDir, "/") != "Department of War/ClassificationBanner" {
		t.Errorf("install_dir = %v", doc.InstallDir)
	}
}

func TestInspect_Query(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"json scalar", []string{"--query", "$.identity.version"}, `"1.3.0.0"`},
		{"yaml scalar", []string{"--query", "$.identity.manufacturer", "--format", "yaml"}, "Department of War"},
		{"root folder", []string{"-q", "$.root.name"}, `"%ProgramFiles%"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, Dependencies{}, append([]string{"inspect", dir}, tt.args...)...)
			if res.err != nil {
				t.Fatalf("inspect error = %v\n%s", res.err, res.stderr)
			}
			if got := strings.TrimSpace(res.stdout); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInspect_WXSAndCUE(t *testing.T) {
	t.Parallel()

	dir := bannerProject(t)

	res := run(t, Dependencies{}, "inspect", dir, "--wxs")
	if res.err != nil {
		t.Fatalf("inspect --wxs error = %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "{F302F7D2-BD3A-4D3A-886F-243C0EF39A24}") {
		t.Errorf("wxs missing braced upgrade code:\n%s", res.stdout)
	}

	res = run(t, Dependencies{}, "inspect", dir, "--cue")
	if res.err != nil {
		t.Fatalf("inspect --cue error = %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, testutil.BannerPackageID) {
		t.Errorf("cue missing package id:\n%s", res.stdout)
	}
}

func TestInspect_RejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	res := run(t, Dependencies{}, "inspect", bannerProject(t), "--format", "xml")
	wantExitCode(t, res.err, types.ExitUsage)
}
