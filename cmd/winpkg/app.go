// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/winpkg/winpkg/internal/config"
	"github.com/winpkg/winpkg/internal/wix"
	"github.com/winpkg/winpkg/pkg/types"
)

type (
	runStateContextKey struct{}

	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference.
	App struct {
		Config ConfigProvider
		Runner wix.Runner
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Runner executes the wix compiler.
		Runner wix.Runner
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// runState is the per-invocation state the root command resolves before
	// any subcommand runs.
	runState struct {
		cfg        *config.Config
		configPath types.FilesystemPath
		verbose    bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = wix.ExecRunner{}
	}

	return &App{
		Config: deps.Config,
		Runner: deps.Runner,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

// compiler returns a wix.Compiler configured from cfg.
func (a *App) compiler(cfg *config.Config) *wix.Compiler {
	return &wix.Compiler{
		Binary:      cfg.Wix.Binary,
		Extensions:  cfg.Wix.Extensions,
		ExtraArgs:   cfg.Wix.ExtraArgs,
		OutputDir:   cfg.Build.OutputDir,
		WorkDir:     cfg.Build.WorkDir,
		KeepWorkDir: cfg.Build.KeepWorkDir,
		Runner:      a.Runner,
	}
}

func contextWithRunState(ctx context.Context, st *runState) context.Context {
	return context.WithValue(ctx, runStateContextKey{}, st)
}

// runStateFromContext returns the state set by the root command, or
// defaults when a command runs without it (e.g. in isolation in tests).
func runStateFromContext(ctx context.Context) *runState {
	if st, ok := ctx.Value(runStateContextKey{}).(*runState); ok {
		return st
	}
	return &runState{cfg: config.DefaultConfig()}
}
