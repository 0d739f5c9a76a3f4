// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load package definition"},
			expected: "failed to load package definition",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load package definition", Resource: "./winpkg.cue"},
			expected: "failed to load package definition: ./winpkg.cue",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "build installer", Cause: errors.New("exit status 1")},
			expected: "failed to build installer: exit status 1",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load package definition",
				Resource:  "./winpkg.cue",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load package definition: ./winpkg.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := fmt.Errorf("outer: %w", &ActionableError{Operation: "test", Cause: cause})
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "simple error non-verbose",
			err:      &ActionableError{Operation: "load config"},
			contains: []string{"failed to load config"},
			excludes: []string{"winpkg explain"},
		},
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "load package definition",
				Resource:    "./winpkg.cue",
				Suggestions: []string{"Run 'winpkg init'", "Check file permissions"},
			},
			contains: []string{
				"failed to load package definition",
				"./winpkg.cue",
				"• Run 'winpkg init'",
				"• Check file permissions",
			},
		},
		{
			name:     "linked issue",
			err:      &ActionableError{Operation: "build installer", Issue: CompilerNotFoundId},
			contains: []string{"Run 'winpkg explain compiler-not-found' for details."},
		},
		{
			name:     "error chain in verbose mode",
			err:      &ActionableError{Operation: "parse config", Cause: errors.New("syntax error")},
			verbose:  true,
			contains: []string{"failed to parse config", "Error chain:", "1. syntax error"},
		},
		{
			name:     "no error chain in non-verbose",
			err:      &ActionableError{Operation: "parse config", Cause: errors.New("syntax error")},
			contains: []string{"failed to parse config: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested error chain verbose",
			err: &ActionableError{
				Operation: "build installer",
				Cause: &ActionableError{
					Operation: "render wix source",
					Cause:     errors.New("file not found"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to render wix source: file not found",
				"2. file not found",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestActionableError_HasSuggestions(t *testing.T) {
	t.Parallel()

	if !(&ActionableError{Operation: "test", Suggestions: []string{"Try this"}}).HasSuggestions() {
		t.Error("HasSuggestions() should return true when suggestions present")
	}
	if (&ActionableError{Operation: "test"}).HasSuggestions() {
		t.Error("HasSuggestions() should return false when no suggestions")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("some/path").Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without an operation should return nil")
	}

	err := NewErrorContext().
		WithOperation("load config").
		WithResource("/home/me/.config/winpkg/config.cue").
		WithIssue(ConfigLoadFailedId).
		WithSuggestion("Check syntax").
		WithSuggestions("Verify permissions", "Run 'winpkg config init'").
		Wrap(errors.New("parse error")).
		Build()
	if err == nil {
		t.Fatal("Build() returned nil")
	}
	if err.Operation != "load config" || err.Resource != "/home/me/.config/winpkg/config.cue" {
		t.Errorf("Operation/Resource = %q/%q", err.Operation, err.Resource)
	}
	if len(err.Suggestions) != 3 {
		t.Errorf("Suggestions count = %d, want 3", len(err.Suggestions))
	}
	if err.Issue != ConfigLoadFailedId {
		t.Errorf("Issue = %d, want %d", err.Issue, ConfigLoadFailedId)
	}
	if err.Cause == nil || err.Cause.Error() != "parse error" {
		t.Errorf("Cause = %v", err.Cause)
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().
		WithOperation("describe artifact").
		WithResource("out/ClassificationBanner-Setup.msi")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()
	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("reused context should allow different causes")
	}
	if err1.Operation != err2.Operation {
		t.Error("reused context should preserve operation")
	}
}

func TestErrorContext_BuildCopiesSuggestions(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("read payload").WithSuggestion("Check the path")
	first := ctx.Build()
	second := ctx.WithSuggestion("Run 'winpkg validate'").Build()

	if len(first.Suggestions) != 1 {
		t.Errorf("first.Suggestions = %v, later suggestions leaked in", first.Suggestions)
	}
	if len(second.Suggestions) != 2 {
		t.Errorf("second.Suggestions = %v, want 2", second.Suggestions)
	}
}

func TestIssueOf(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("cli: %w", NewErrorContext().WithOperation("build installer").WithIssue(EmissionFailedId).BuildError())
	if i := IssueOf(err); i == nil || i.Id() != EmissionFailedId {
		t.Errorf("IssueOf() = %v, want emission-failed", i)
	}
	if IssueOf(errors.New("plain")) != nil {
		t.Error("IssueOf() of a plain error should be nil")
	}
	if IssueOf(&ActionableError{Operation: "x"}) != nil {
		t.Error("IssueOf() without a linked issue should be nil")
	}
}
