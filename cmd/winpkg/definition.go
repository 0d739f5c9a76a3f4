// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/winpkg/winpkg/internal/issue"
	"github.com/winpkg/winpkg/pkg/fspath"
	"github.com/winpkg/winpkg/pkg/pkgdef"
	"github.com/winpkg/winpkg/pkg/types"

	"github.com/spf13/cobra"
)

// resolveDefinitionPath maps the optional [definition] argument to a file.
// A directory (or no argument, meaning the working directory) is searched
// for the default file names.
func resolveDefinitionPath(args []string) (types.FilesystemPath, error) {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", definitionNotFound(target, err)
	}
	if !info.IsDir() {
		return types.FilesystemPath(target), nil
	}

	path, err := pkgdef.FindDefinition(types.FilesystemPath(target))
	if err != nil {
		return "", definitionNotFound(target, err)
	}
	return path, nil
}

func definitionNotFound(target string, err error) error {
	return issue.NewErrorContext().
		WithOperation("find package definition").
		WithResource(target).
		WithIssue(issue.DefinitionNotFoundId).
		WithSuggestions(
			"Run 'winpkg init' to create winpkg.cue",
			"Pass the definition path explicitly: winpkg build path/to/winpkg.yaml",
		).
		Wrap(err).
		BuildError()
}

// parseDefinition reads the definition at path.
func parseDefinition(path types.FilesystemPath) (*pkgdef.Definition, error) {
	def, err := pkgdef.Parse(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse package definition").
			WithResource(string(path)).
			WithIssue(issue.DefinitionParseErrorId).
			WithSuggestion("Check the reported line against 'winpkg explain definition-parse-error'").
			Wrap(err).
			BuildError()
	}
	return def, nil
}

// loadManifest parses and assembles the definition at path. Assembly
// errors are returned unwrapped so every one of them can be listed.
func loadManifest(path, contextDir types.FilesystemPath) (*pkgdef.Definition, *pkgdef.Manifest, error) {
	def, err := parseDefinition(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := pkgdef.Assemble(def, pkgdef.NewBuildContext(pkgdef.DefaultContextDir(path, contextDir)))
	return def, m, err
}

// flattenErrors expands joined errors into their parts.
func flattenErrors(err error) []error {
	if err == nil {
		return nil
	}
	var verrs pkgdef.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]error, 0, len(verrs))
		for _, v := range verrs {
			out = append(out, v)
		}
		return out
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []error{err}
}

// issueFor picks the catalog entry that best explains a definition problem.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, pkgdef.ErrMissingSource):
		return issue.SourceMissingId
	case errors.Is(err, pkgdef.ErrScopeMismatch):
		return issue.ScopeMismatchId
	default:
		return issue.ManifestInvalidId
	}
}

// printProblems writes one line per problem and returns how many were errors.
func printProblems(w io.Writer, problems []error) int {
	errCount := 0
	for _, p := range problems {
		var v pkgdef.ValidationError
		if errors.As(p, &v) {
			if v.IsWarning() {
				fmt.Fprintln(w, formatViolation(v))
				continue
			}
			errCount++
			fmt.Fprintln(w, formatViolation(v))
			continue
		}
		errCount++
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render(errorIcon), p.Error())
	}
	return errCount
}

func formatViolation(v pkgdef.ValidationError) string {
	var b strings.Builder
	if v.IsWarning() {
		b.WriteString(WarningStyle.Render(warningIcon))
	} else {
		b.WriteString(ErrorStyle.Render(errorIcon))
	}
	b.WriteString(" ")
	b.WriteString(validatorTagStyle.Render("[" + v.Validator.String() + "]"))
	b.WriteString(" ")
	if v.File != "" {
		b.WriteString(CmdStyle.Render(v.File))
		b.WriteString(": ")
	}
	if v.Field != "" {
		b.WriteString(fieldStyle.Render(v.Field))
		b.WriteString(": ")
	}
	b.WriteString(v.Message)
	return b.String()
}

// reportProblems prints every problem in err followed by a pointer to the
// most relevant issue page, and returns the error the command should exit with.
func reportProblems(cmd *cobra.Command, heading string, err error) error {
	problems := flattenErrors(err)
	w := cmd.ErrOrStderr()

	fmt.Fprintln(w, ErrorStyle.Render(heading))
	n := printProblems(w, problems)
	if n > 0 {
		fmt.Fprintf(w, "\n%d problem(s). Run 'winpkg explain %s' for details.\n", n, issue.Get(issueFor(problems[firstError(problems)])).Name())
	}
	return silentExit(cmd, types.ExitFailure)
}

func firstError(problems []error) int {
	for i, p := range problems {
		var v pkgdef.ValidationError
		if errors.As(p, &v) && v.IsWarning() {
			continue
		}
		return i
	}
	return 0
}

// fail prints an error the way the root command would and exits with code 1
// without cobra printing it again.
func fail(cmd *cobra.Command, err error) error {
	return failWith(cmd, types.ExitFailure, err)
}

func failWith(cmd *cobra.Command, code types.ExitCode, err error) error {
	st := runStateFromContext(cmd.Context())
	fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, st.verbose))
	return silentExit(cmd, code)
}

// usageError marks err as a command line mistake. Errors that already carry
// an exit code are returned unchanged.
func usageError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: types.ExitUsage, Err: err}
}

// usageArgs makes a positional argument check exit with ExitUsage.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(check(cmd, args))
	}
}

func silentExit(cmd *cobra.Command, code types.ExitCode) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: code}
}

// formatErrorForDisplay renders actionable errors with their suggestions.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// contextDirFor returns the --context flag made absolute, or the configured
// build.context_dir, which stays relative to the definition's directory.
func contextDirFor(flag string, configured types.FilesystemPath) (types.FilesystemPath, error) {
	if flag == "" {
		return configured, nil
	}
	return fspath.Abs(types.FilesystemPath(flag))
}
