// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/winpkg/winpkg/internal/issue"

	"github.com/spf13/cobra"
)

func newExplainCommand(_ *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue]",
		Short: "Explain an error and how to fix it",
		Long: `Show the help page for an issue reported by winpkg.

Without an argument every known issue is listed.`,
		Example: `  winpkg explain
  winpkg explain source-missing`,
		Args:      usageArgs(cobra.MaximumNArgs(1)),
		ValidArgs: issue.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, i := range issue.Values() {
					fmt.Fprintf(out, "%s  %s\n", CmdStyle.Render(fmt.Sprintf("%-24s", i.Name())), issueTitle(i))
				}
				return nil
			}

			i, ok := issue.Lookup(args[0])
			if !ok {
				return fail(cmd, issue.NewErrorContext().
					WithOperation("explain issue").
					WithResource(args[0]).
					WithSuggestion("Known issues: "+strings.Join(issue.Names(), ", ")).
					Wrap(fmt.Errorf("unknown issue %q", args[0])).
					BuildError())
			}

			style := string(runStateFromContext(cmd.Context()).cfg.UI.ColorScheme)
			rendered, err := i.Render(style)
			if err != nil {
				// Rendering is cosmetic; fall back to the raw markdown.
				rendered = i.Markdown()
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}

// issueTitle returns the first heading of the issue page.
func issueTitle(i *issue.Issue) string {
	for line := range strings.SplitSeq(i.Markdown(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
