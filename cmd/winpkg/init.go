// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/winpkg/winpkg/pkg/pkgdef"

	"github.com/spf13/cobra"
)

// ErrDefinitionExists is returned by init when the target file exists and --force is not set.
var ErrDefinitionExists = errors.New("package definition already exists")

func newInitCommand(_ *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a sample winpkg.cue",
		Long: `Create a sample winpkg.cue in the given directory (default: current).

The sample packages a single executable into Program Files under a
manufacturer subdirectory and starts it at logon through the Run key.
A fresh package id is generated each time.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			path, err := writeSampleDefinition(dir, force)
			if err != nil {
				return fail(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", SuccessStyle.Render(successIcon), CmdStyle.Render(path))
			fmt.Fprintf(cmd.OutOrStdout(), "  Next: point files[0].source at your build output, then run %s\n", CmdStyle.Render("winpkg validate"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing winpkg.cue")

	return cmd
}

// sampleDefinition is the Classification Banner package with a new id.
func sampleDefinition() *pkgdef.Definition {
	return &pkgdef.Definition{
		Name:         "Classification Banner",
		PackageID:    pkgdef.NewPackageID().String(),
		Manufacturer: "Department of War",
		Version:      "1.3.0.0",
		Scope:        pkgdef.ScopePerMachine.String(),
		Architecture: pkgdef.ArchX64.String(),
		OutputName:   "ClassificationBanner-Setup",
		InstallDir:   `%ProgramFiles%\Department of War\ClassificationBanner`,
		Files: []pkgdef.FileDefinition{
			{Source: `dist\Windows\ClassificationBanner.exe`},
		},
		Registry: []pkgdef.RegistryDefinition{{
			Hive:  pkgdef.HiveLocalMachine.String(),
			Key:   `Software\Microsoft\Windows\CurrentVersion\Run`,
			Name:  "ClassificationBanner",
			Value: `"[INSTALLDIR]ClassificationBanner.exe"`,
		}},
	}
}

func writeSampleDefinition(dir string, force bool) (string, error) {
	path := filepath.Join(dir, pkgdef.DefaultFileNames[0])
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrDefinitionExists, path)
	}

	src, err := pkgdef.FormatCUESource(sampleDefinition())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
