// SPDX-License-Identifier: MPL-2.0

package wix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/winpkg/winpkg/internal/logging"
	"github.com/winpkg/winpkg/pkg/emitter"
	"github.com/winpkg/winpkg/pkg/fspath"
	"github.com/winpkg/winpkg/pkg/pkgdef"
	"github.com/winpkg/winpkg/pkg/types"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// DefaultBinary is the WiX v4+ command line tool.
	DefaultBinary = "wix"

	emitterName = "wix"

	// stagingSuffix marks the file wix writes to before it replaces the
	// previous artifact.
	stagingSuffix = ".partial"
)

// ErrCompilerNotFound is returned when the wix binary cannot be located.
var ErrCompilerNotFound = errors.New("wix compiler not found")

// Compile-time check that Compiler implements emitter.Emitter.
var _ emitter.Emitter = (*Compiler)(nil)

type (
	// Runner executes the compiler. ExecRunner is the production implementation.
	Runner interface {
		LookPath(file string) (string, error)
		Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	}

	// ExecRunner runs commands with os/exec and returns combined output.
	ExecRunner struct{}

	// CompilerNotFoundError names the binary that could not be found.
	CompilerNotFoundError struct {
		Binary string
		Cause  error
	}

	// Compiler is an emitter that builds an .msi with `wix build`.
	Compiler struct {
		// Binary is the wix executable name or path. Empty means DefaultBinary.
		Binary string
		// Extensions are passed as -ext flags, e.g. WixToolset.UI.wixext.
		Extensions []string
		// ExtraArgs are appended before the source file.
		ExtraArgs []string
		// OutputDir receives the .msi. Empty means the build context root.
		OutputDir types.FilesystemPath
		// WorkDir receives the generated .wxs. Empty means a temp dir
		// that is removed afterwards unless KeepWorkDir is set.
		WorkDir     types.FilesystemPath
		KeepWorkDir bool
		// Runner defaults to ExecRunner.
		Runner Runner
	}
)

// Error implements the error interface.
func (e *CompilerNotFoundError) Error() string {
	return fmt.Sprintf("wix compiler %q not found: %v", e.Binary, e.Cause)
}

// Unwrap returns ErrCompilerNotFound for errors.Is() compatibility.
func (e *CompilerNotFoundError) Unwrap() error { return ErrCompilerNotFound }

// LookPath implements Runner.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func (c *Compiler) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return DefaultBinary
}

func (c *Compiler) runner() Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return ExecRunner{}
}

// OutputPath returns the absolute path the artifact for m is written to.
// Relative output directories are taken from the working directory, never
// from the compiler's work dir.
func (c *Compiler) OutputPath(m *pkgdef.Manifest) (types.FilesystemPath, error) {
	dir := c.OutputDir
	if dir == "" {
		dir = m.BuildContext.Root
	}
	if dir == "" {
		dir = "."
	}
	abs, err := fspath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving output dir %s: %w", dir, err)
	}
	return fspath.JoinStr(abs, m.OutputName+".msi"), nil
}

// stagingPath is where wix writes before the result replaces output, so a
// failed build never touches the previous artifact.
func stagingPath(output types.FilesystemPath) types.FilesystemPath {
	s := string(output)
	ext := filepath.Ext(s)
	return types.FilesystemPath(strings.TrimSuffix(s, ext) + stagingSuffix + ext)
}

// sidecar swaps the extension of an msi path, e.g. for the .wixpdb wix
// writes next to its output.
func sidecar(p types.FilesystemPath, ext string) types.FilesystemPath {
	s := string(p)
	return types.FilesystemPath(strings.TrimSuffix(s, filepath.Ext(s)) + ext)
}

// Args returns the wix arguments that compile source into output.
func (c *Compiler) Args(m *pkgdef.Manifest, source, output types.FilesystemPath) []string {
	args := []string{"build", "-arch", string(m.Architecture), "-o", string(output)}
	for _, ext := range c.Extensions {
		args = append(args, "-ext", ext)
	}
	args = append(args, c.ExtraArgs...)
	return append(args, string(source))
}

// CommandLine renders the compiler invocation as a shell-quoted line.
func (c *Compiler) CommandLine(m *pkgdef.Manifest, source types.FilesystemPath) (string, error) {
	output, err := c.OutputPath(m)
	if err != nil {
		return "", err
	}
	words := append([]string{c.binary()}, c.Args(m, source, output)...)
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", w, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

// Emit implements emitter.Emitter.
func (c *Compiler) Emit(ctx context.Context, v *pkgdef.Validated) (emitter.Artifact, error) {
	logger := logging.FromContext(ctx)
	m := v.Manifest()

	bin, err := c.runner().LookPath(c.binary())
	if err != nil {
		return emitter.Artifact{}, &emitter.EmissionFailure{
			Emitter: emitterName,
			Cause:   &CompilerNotFoundError{Binary: c.binary(), Cause: err},
		}
	}

	source, err := Render(m)
	if err != nil {
		return emitter.Artifact{}, &emitter.EmissionFailure{Emitter: emitterName, Cause: err}
	}

	workDir, cleanup, err := c.prepareWorkDir()
	if err != nil {
		return emitter.Artifact{}, &emitter.EmissionFailure{Emitter: emitterName, Cause: err}
	}
	defer cleanup()

	wxs := fspath.JoinStr(workDir, m.OutputName+".wxs")
	if err := os.WriteFile(string(wxs), source, 0o644); err != nil {
		return emitter.Artifact{}, &emitter.EmissionFailure{Emitter: emitterName, Cause: fmt.Errorf("writing %s: %w", wxs, err)}
	}
	logger.Debug("wrote wix source", "path", wxs)

	output, err := c.OutputPath(m)
	if err != nil {
		return emitter.Artifact{}, &emitter.EmissionFailure{Emitter: emitterName, Cause: err}
	}
	if err := os.MkdirAll(filepath.Dir(string(output)), 0o755); err != nil {
		return emitter.Artifact{}, &emitter.EmissionFailure{Emitter: emitterName, Cause: err}
	}
	staging := stagingPath(output)

	args := c.Args(m, wxs, staging)
	logger.Info("compiling package", "binary", bin, "output", output, "arch", m.Architecture)
	out, err := c.runner().Run(ctx, string(workDir), bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		emitter.RemovePartial(sidecar(staging, ".wixpdb"))
		return emitter.Artifact{Path: staging}, &emitter.EmissionFailure{
			Emitter: emitterName,
			Output:  strings.TrimSpace(string(out)),
			Cause:   err,
		}
	}
	if len(out) > 0 {
		logger.Debug("wix output", "output", strings.TrimSpace(string(out)))
	}

	if _, err := os.Stat(string(staging)); err != nil {
		return emitter.Artifact{Path: staging}, &emitter.EmissionFailure{
			Emitter: emitterName,
			Output:  strings.TrimSpace(string(out)),
			Cause:   fmt.Errorf("compiler reported success but produced no artifact: %w", err),
		}
	}
	if err := os.Rename(string(staging), string(output)); err != nil {
		return emitter.Artifact{Path: staging}, &emitter.EmissionFailure{Emitter: emitterName, Cause: fmt.Errorf("replacing %s: %w", output, err)}
	}
	if pdb := sidecar(staging, ".wixpdb"); fileExists(pdb) {
		_ = os.Rename(string(pdb), string(sidecar(output, ".wixpdb")))
	}

	artifact, err := emitter.Describe(output)
	if err != nil {
		return emitter.Artifact{}, &emitter.EmissionFailure{Emitter: emitterName, Cause: err}
	}
	return artifact, nil
}

func fileExists(p types.FilesystemPath) bool {
	_, err := os.Stat(string(p))
	return err == nil
}

// prepareWorkDir returns an absolute work dir, since wix runs inside it and
// resolves every relative argument from there.
func (c *Compiler) prepareWorkDir() (types.FilesystemPath, func(), error) {
	if c.WorkDir != "" {
		dir, err := fspath.Abs(c.WorkDir)
		if err != nil {
			return "", nil, fmt.Errorf("resolving work dir: %w", err)
		}
		if err := os.MkdirAll(string(dir), 0o755); err != nil {
			return "", nil, fmt.Errorf("creating work dir: %w", err)
		}
		return dir, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "winpkg-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating work dir: %w", err)
	}
	if c.KeepWorkDir {
		return types.FilesystemPath(dir), func() {}, nil
	}
	return types.FilesystemPath(dir), func() { _ = os.RemoveAll(dir) }, nil
}
