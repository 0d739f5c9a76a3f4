// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/winpkg/winpkg/internal/config"
	"github.com/winpkg/winpkg/internal/testutil"
	"github.com/winpkg/winpkg/pkg/types"
)

type (
	configFunc func(ctx context.Context, opts config.LoadOptions) (*config.Config, error)

	// fakeRunner stands in for the wix binary and writes whatever -o names.
	fakeRunner struct {
		mu      sync.Mutex
		missing bool
		fail    bool
		calls   [][]string
	}

	result struct {
		stdout string
		stderr string
		err    error
	}
)

func (f configFunc) Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	return f(ctx, opts)
}

func defaultConfig(context.Context, config.LoadOptions) (*config.Config, error) {
	return config.DefaultConfig(), nil
}

func (r *fakeRunner) LookPath(file string) (string, error) {
	if r.missing {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/local/bin/" + file, nil
}

func (r *fakeRunner) Run(_ context.Context, _, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if r.fail {
		return []byte("error WIX0103: The system cannot find the file"), errors.New("exit status 1")
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1], []byte("MSI fixture"), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// run executes the root command with args against the given dependencies.
func run(t *testing.T, deps Dependencies, args ...string) result {
	t.Helper()
	return runContext(t, t.Context(), deps, args...)
}

func runContext(t *testing.T, ctx context.Context, deps Dependencies, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	if deps.Config == nil {
		deps.Config = configFunc(defaultConfig)
	}
	if deps.Runner == nil {
		deps.Runner = &fakeRunner{}
	}

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	root := NewRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(ctx)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// bannerProject writes the reference definition and payload into a temp
// dir and returns the dir.
func bannerProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteBannerPayload(t, dir)
	testutil.WriteDefinition(t, dir, "winpkg.cue", testutil.BannerCUE)
	return dir
}

func wantExitCode(t *testing.T, err error, code types.ExitCode) {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != code {
		t.Errorf("exit code = %d, want %d", exitErr.Code, code)
	}
}

func msiPath(dir string) string {
	return filepath.Join(dir, testutil.BannerOutputName+".msi")
}
