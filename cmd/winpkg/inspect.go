// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/winpkg/winpkg/internal/wix"
	"github.com/winpkg/winpkg/pkg/pkgdef"
	"github.com/winpkg/winpkg/pkg/types"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type inspectFlags struct {
	query      string
	format     string
	contextDir string
	wxs        bool
	cue        bool
}

func newInspectCommand(app *App) *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect [definition]",
		Short: "Show the assembled manifest",
		Long: `Show the manifest a definition assembles into.

By default the manifest is printed as JSON. --query evaluates a JSONPath
expression against that JSON, --wxs prints the WiX source build would
compile, and --cue reprints the definition itself in canonical CUE.`,
		Example: `  winpkg inspect
  winpkg inspect --query '$.identity.version'
  winpkg inspect --query '$.root.children[*].name' --format yaml
  winpkg inspect --wxs`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, app, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "JSONPath expression evaluated against the manifest")
	cmd.Flags().StringVar(&flags.format, "format", outputJSON, "output format: json or yaml")
	cmd.Flags().StringVar(&flags.contextDir, "context", "", "directory payload sources are resolved against")
	cmd.Flags().BoolVar(&flags.wxs, "wxs", false, "print the generated WiX source")
	cmd.Flags().BoolVar(&flags.cue, "cue", false, "print the definition as canonical CUE")
	cmd.MarkFlagsMutuallyExclusive("query", "wxs", "cue")

	return cmd
}

func runInspect(cmd *cobra.Command, _ *App, args []string, flags inspectFlags) error {
	cfg := runStateFromContext(cmd.Context()).cfg
	out := cmd.OutOrStdout()

	if flags.format != outputJSON && flags.format != outputYAML {
		return failWith(cmd, types.ExitUsage, fmt.Errorf("unsupported output format %q (valid: %s, %s)", flags.format, outputJSON, outputYAML))
	}

	path, err := resolveDefinitionPath(args)
	if err != nil {
		return fail(cmd, err)
	}

	if flags.cue {
		def, parseErr := parseDefinition(path)
		if parseErr != nil {
			return fail(cmd, parseErr)
		}
		src, fmtErr := pkgdef.FormatCUESource(def)
		if fmtErr != nil {
			return fail(cmd, fmtErr)
		}
		_, err = out.Write(src)
		return err
	}

	contextDir, err := contextDirFor(flags.contextDir, cfg.Build.ContextDir)
	if err != nil {
		return fail(cmd, err)
	}
	_, m, err := loadManifest(path, contextDir)
	if err != nil {
		return reportProblems(cmd, fmt.Sprintf("%s cannot be assembled:", path), err)
	}

	if flags.wxs {
		src, renderErr := wix.Render(m)
		if renderErr != nil {
			return fail(cmd, renderErr)
		}
		fmt.Fprintln(out, string(src))
		return nil
	}

	var view any
	if flags.query != "" {
		view, err = pkgdef.Query(m, flags.query)
	} else {
		view, err = pkgdef.Export(m)
	}
	if err != nil {
		return fail(cmd, err)
	}
	return writeView(out, flags.format, view)
}

func writeView(w io.Writer, format string, view any) error {
	if format == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
