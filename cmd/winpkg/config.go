// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/winpkg/winpkg/internal/config"
	"github.com/winpkg/winpkg/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `winpkg config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage winpkg configuration",
		Long: `Manage winpkg configuration.

Configuration is stored in:
  - Linux: ~/.config/winpkg/config.cue
  - macOS: ~/Library/Application Support/winpkg/config.cue
  - Windows: %APPDATA%\winpkg\config.cue

Every key can also be set through a WINPKG_ environment variable,
e.g. WINPKG_WIX_BINARY=/opt/wix/wix or WINPKG_BUILD_STRICT=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions(cmd))
			if err != nil {
				return fail(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func loadOptions(cmd *cobra.Command) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: runStateFromContext(cmd.Context()).configPath}
}

func showConfig(cmd *cobra.Command, app *App) error {
	out := cmd.OutOrStdout()
	opts := loadOptions(cmd)

	cfg, err := app.Config.Load(cmd.Context(), opts)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(cmd.ErrOrStderr(), rendered)
		return fail(cmd, err)
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if path, pathErr := config.FilePath(opts); pathErr == nil && fileExists(string(path)) {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	field := func(name string, value any) {
		fmt.Fprintf(out, "  %s: %s\n", name, valueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("wix"))
	field("binary", cfg.Wix.Binary)
	listField(out, "extensions", cfg.Wix.Extensions)
	listField(out, "extra_args", cfg.Wix.ExtraArgs)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("build"))
	field("context_dir", orDefault(string(cfg.Build.ContextDir), "(definition directory)"))
	field("output_dir", orDefault(string(cfg.Build.OutputDir), "(build context)"))
	field("work_dir", orDefault(string(cfg.Build.WorkDir), "(temporary)"))
	field("keep_work_dir", cfg.Build.KeepWorkDir)
	field("strict", cfg.Build.Strict)
	listField(out, "watch_include", cfg.Build.WatchInclude)
	listField(out, "watch_ignore", cfg.Build.WatchIgnore)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	field("color_scheme", cfg.UI.ColorScheme)
	field("verbose", cfg.UI.Verbose)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("log"))
	field("level", cfg.Log.Level)
	field("format", cfg.Log.Format)

	return nil
}

func listField(w io.Writer, name string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s: %s\n", name, SubtitleStyle.Render("(none configured)"))
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", name, SuccessStyle.Render(strings.Join(items, " ")))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func initConfig(cmd *cobra.Command, force bool) error {
	path, err := config.CreateDefaultConfig(loadOptions(cmd), force)
	if err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fail(cmd, issue.NewErrorContext().
				WithOperation("create configuration").
				WithResource(string(path)).
				WithSuggestion("Use 'winpkg config init --force' to overwrite it").
				Wrap(err).
				BuildError())
		}
		return fail(cmd, fmt.Errorf("failed to create config: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render(successIcon), path)
	return nil
}

func showConfigPath(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return fail(cmd, err)
	}
	path, err := config.FilePath(loadOptions(cmd))
	if err != nil {
		return fail(cmd, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", cfgDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
