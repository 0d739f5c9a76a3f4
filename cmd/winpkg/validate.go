// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/winpkg/winpkg/pkg/pkgdef"

	"github.com/spf13/cobra"
)

func newValidateCommand(app *App) *cobra.Command {
	var (
		strict     bool
		contextDir string
	)

	cmd := &cobra.Command{
		Use:   "validate [definition]",
		Short: "Report every problem in a package definition",
		Long: `Validate a package definition without compiling it.

All violations are listed at once: identity, payload sources, destination
collisions, install directory, registry keys and scope consistency.
Exits with status 1 when any error is found.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, app, args, contextDir, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	cmd.Flags().StringVar(&contextDir, "context", "", "directory payload sources are resolved against")

	return cmd
}

func runValidate(cmd *cobra.Command, _ *App, args []string, contextFlag string, strict bool) error {
	cfg := runStateFromContext(cmd.Context()).cfg

	path, err := resolveDefinitionPath(args)
	if err != nil {
		return fail(cmd, err)
	}
	contextDir, err := contextDirFor(contextFlag, cfg.Build.ContextDir)
	if err != nil {
		return fail(cmd, err)
	}

	_, m, err := loadManifest(path, contextDir)
	if err != nil {
		return reportProblems(cmd, fmt.Sprintf("%s cannot be assembled:", path), err)
	}

	result := pkgdef.Validate(m,
		pkgdef.WithStrictMode(strict || cfg.Build.Strict),
		pkgdef.WithFilePath(string(path)),
	)
	if result.HasErrors() {
		return reportProblems(cmd, fmt.Sprintf("%s is invalid:", path), result)
	}

	printProblems(cmd.ErrOrStderr(), flattenErrors(result))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid (%s %s, %d file(s))\n",
		SuccessStyle.Render(successIcon), path, m.Identity.Name, m.Identity.Version, len(m.Payloads()))
	return nil
}
