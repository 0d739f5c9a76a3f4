// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/winpkg/winpkg/internal/config"
	"github.com/winpkg/winpkg/internal/logging"
	"github.com/winpkg/winpkg/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the winpkg command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var (
		verbose bool
		cfgFile string
	)

	rootCmd := &cobra.Command{
		Use:   "winpkg",
		Short: "Build Windows installer packages from declarative definitions",
		Long: TitleStyle.Render("winpkg") + SubtitleStyle.Render(" - Windows installer packages from declarative definitions") + `

winpkg reads a package definition (CUE, YAML, TOML or HCL) describing a
product identity, the files to install, and registry values to write. It
validates the whole definition at once, then compiles an .msi with the
WiX toolset.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a definition with: winpkg init
  2. Point its files at your build output
  3. Build the installer with: winpkg build

` + SubtitleStyle.Render("Examples:") + `
  winpkg validate           Report every problem in ./winpkg.cue
  winpkg build --dry-run    Show the WiX source and compiler command
  winpkg build --out dist   Build the .msi into ./dist
  winpkg explain scope-mismatch
  winpkg config show        Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			st := loadRunState(cmd, app, types.FilesystemPath(cfgFile), verbose)

			logger, err := logging.New(app.stderr, st.cfg.LoggingOptions())
			if err != nil {
				return err
			}
			logging.Install(logger)

			ctx := contextWithRunState(cmd.Context(), st)
			cmd.SetContext(logging.WithContext(ctx, logger))
			return nil
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/winpkg/config.cue)")

	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newExplainCommand(app))

	return rootCmd
}

// loadRunState loads configuration for the invocation. Config errors are
// always surfaced but do not stop the command; defaults apply instead.
func loadRunState(cmd *cobra.Command, app *App, cfgFile types.FilesystemPath, verbose bool) *runState {
	st := &runState{configPath: cfgFile, verbose: verbose}

	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		st.verbose = cfg.UI.Verbose
	}
	cfg.UI.Verbose = st.verbose
	st.cfg = cfg
	return st
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(types.ExitFailure))
	}

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
