// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/winpkg/winpkg/internal/issue"
	"github.com/winpkg/winpkg/internal/logging"
	"github.com/winpkg/winpkg/internal/watch"
	"github.com/winpkg/winpkg/internal/wix"
	"github.com/winpkg/winpkg/pkg/emitter"
	"github.com/winpkg/winpkg/pkg/fspath"
	"github.com/winpkg/winpkg/pkg/pkgdef"
	"github.com/winpkg/winpkg/pkg/types"

	"github.com/spf13/cobra"
)

type buildFlags struct {
	exe        string
	outputName string
	outDir     string
	contextDir string
	dryRun     bool
	strict     bool
	watch      bool
}

func newBuildCommand(app *App) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build [definition]",
		Short: "Validate a package definition and compile the installer",
		Long: `Load a package definition, validate it, and compile an .msi with WiX.

The definition argument may be a file or a directory; with no argument the
current directory is searched for winpkg.cue, winpkg.yaml, winpkg.toml or
winpkg.hcl. Every problem is reported before anything is compiled.`,
		Example: `  winpkg build
  winpkg build --exe bin/ClassificationBanner.exe --out dist
  winpkg build packaging/winpkg.yaml --dry-run
  winpkg build --watch`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, app, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.exe, "exe", "", "payload executable replacing the first declared file")
	cmd.Flags().StringVar(&flags.outputName, "output-name", "", "artifact file name without extension")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "directory that receives the .msi")
	cmd.Flags().StringVar(&flags.contextDir, "context", "", "directory payload sources are resolved against")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the WiX source and compiler command without compiling")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild when the definition or a payload changes")

	return cmd
}

func runBuild(cmd *cobra.Command, app *App, args []string, flags buildFlags) error {
	path, err := resolveDefinitionPath(args)
	if err != nil {
		return fail(cmd, err)
	}

	inputs, err := buildOnce(cmd, app, path, flags)
	if !flags.watch {
		return err
	}
	return watchBuild(cmd, app, path, flags, inputs)
}

// buildOnce runs the pipeline for the definition at path. It returns the
// host paths the build read (the definition and every declared payload
// source it could resolve), even when the build fails.
func buildOnce(cmd *cobra.Command, app *App, path types.FilesystemPath, flags buildFlags) ([]string, error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	cfg := runStateFromContext(ctx).cfg
	inputs := []string{string(path)}

	logger.Debug("using definition", "path", path)
	def, err := parseDefinition(path)
	if err != nil {
		return inputs, fail(cmd, err)
	}
	if flags.exe != "" {
		exe, absErr := fspath.Abs(types.FilesystemPath(flags.exe))
		if absErr != nil {
			return inputs, fail(cmd, absErr)
		}
		def.OverridePrimarySource(string(exe))
	}
	if flags.outputName != "" {
		def.OutputName = flags.outputName
	}

	contextDir, err := contextDirFor(flags.contextDir, cfg.Build.ContextDir)
	if err != nil {
		return inputs, fail(cmd, err)
	}
	buildCtx := pkgdef.NewBuildContext(pkgdef.DefaultContextDir(path, contextDir))
	for _, f := range def.Files {
		if resolved, resolveErr := buildCtx.Resolve(types.FilesystemPath(f.Source)); resolveErr == nil {
			inputs = append(inputs, string(resolved))
		}
	}

	m, err := pkgdef.Assemble(def, buildCtx)
	if err != nil {
		return inputs, reportProblems(cmd, fmt.Sprintf("%s cannot be assembled:", path), err)
	}
	logger.Debug("assembled manifest", "name", m.Identity.Name, "payloads", len(m.Payloads()))

	compiler := app.compiler(cfg)
	if flags.outDir != "" {
		compiler.OutputDir = types.FilesystemPath(flags.outDir)
	}

	opts := []pkgdef.ValidateOption{
		pkgdef.WithStrictMode(flags.strict || cfg.Build.Strict),
		pkgdef.WithFilePath(string(path)),
	}

	if flags.dryRun {
		return inputs, dryRun(cmd, compiler, m, opts)
	}

	artifact, v, err := emitter.Run(ctx, compiler, m, opts...)
	if err != nil {
		return inputs, buildFailure(cmd, path, err)
	}

	out := cmd.OutOrStdout()
	printProblems(cmd.ErrOrStderr(), flattenErrors(v.Warnings()))
	fmt.Fprintf(out, "%s Built %s\n", SuccessStyle.Render(successIcon), CmdStyle.Render(string(artifact.Path)))
	fmt.Fprintf(out, "  %s %d bytes\n", SubtitleStyle.Render("size:  "), artifact.Size)
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("sha256:"), digestStyle.Render(artifact.SHA256))
	return inputs, nil
}

// watchBuild rebuilds whenever one of inputs changes, until interrupted.
func watchBuild(cmd *cobra.Command, app *App, path types.FilesystemPath, flags buildFlags, inputs []string) error {
	cfg := runStateFromContext(cmd.Context()).cfg
	w, err := watch.New(watch.Config{
		Files:   inputs,
		Root:    filepath.Dir(string(path)),
		Include: cfg.Build.WatchInclude,
		Ignore:  cfg.Build.WatchIgnore,
		OnChange: func(_ context.Context, changed []string) ([]string, error) {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s %d input(s) changed, rebuilding\n", VerboseStyle.Render("~"), len(changed))
			// Failures are already reported; keep watching.
			next, _ := buildOnce(cmd, app, path, flags)
			return next, nil
		},
	})
	if err != nil {
		return fail(cmd, err)
	}

	watching := fmt.Sprintf("Watching %d file(s)", len(inputs))
	if n := len(cfg.Build.WatchInclude); n > 0 {
		watching += fmt.Sprintf(" and %d pattern(s)", n)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", SubtitleStyle.Render(watching+" for changes. Press Ctrl+C to stop."))
	if err := w.Run(cmd.Context()); err != nil {
		return fail(cmd, err)
	}
	return nil
}

// dryRun validates m and prints what build would hand to the compiler.
func dryRun(cmd *cobra.Command, compiler *wix.Compiler, m *pkgdef.Manifest, opts []pkgdef.ValidateOption) error {
	v, err := pkgdef.Certify(m, opts...)
	if err != nil {
		return reportProblems(cmd, "Manifest is invalid:", err)
	}
	printProblems(cmd.ErrOrStderr(), flattenErrors(v.Warnings()))

	source, err := wix.Render(v.Manifest())
	if err != nil {
		return fail(cmd, err)
	}
	wxs := types.FilesystemPath(filepath.Join("<work>", m.OutputName+".wxs"))
	line, err := compiler.CommandLine(m, wxs)
	if err != nil {
		return fail(cmd, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, SubtitleStyle.Render("# "+string(wxs)))
	fmt.Fprintln(out, string(source))
	fmt.Fprintln(out, SubtitleStyle.Render("# command"))
	fmt.Fprintln(out, line)
	return nil
}

func buildFailure(cmd *cobra.Command, path types.FilesystemPath, err error) error {
	var verrs pkgdef.ValidationErrors
	if errors.As(err, &verrs) {
		return reportProblems(cmd, fmt.Sprintf("%s is invalid:", path), verrs)
	}

	if errors.Is(err, wix.ErrCompilerNotFound) {
		return fail(cmd, issue.NewErrorContext().
			WithOperation("compile installer").
			WithIssue(issue.CompilerNotFoundId).
			WithSuggestions(
				"Install the WiX toolset: dotnet tool install --global wix",
				"Set wix.binary in the config file or WINPKG_WIX_BINARY",
			).
			Wrap(err).
			BuildError())
	}

	ctx := issue.NewErrorContext().
		WithOperation("compile installer").
		WithResource(string(path)).
		WithIssue(issue.EmissionFailedId).
		WithSuggestion("Run 'winpkg build --dry-run' to see the generated WiX source")
	var failure *emitter.EmissionFailure
	if errors.As(err, &failure) && failure.Output != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render("compiler output:"))
		fmt.Fprintln(cmd.ErrOrStderr(), failure.Output)
	}
	return fail(cmd, ctx.Wrap(err).BuildError())
}
