// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// SeverityError indicates a violation that blocks emission.
	SeverityError ValidationSeverity = iota
	// SeverityWarning indicates a likely mistake that does not block emission
	// unless strict mode is on.
	SeverityWarning
)

var (
	// ErrInvalidValidationSeverity is returned when a ValidationSeverity value is not one of the defined severities.
	ErrInvalidValidationSeverity = errors.New("invalid validation severity")
	// ErrInvalidValidatorName is returned when a ValidatorName is empty or whitespace-only.
	ErrInvalidValidatorName = errors.New("invalid validator name")
	// ErrValidationFailed is matched by every ValidationErrors carrying at least one error.
	ErrValidationFailed = errors.New("manifest validation failed")
)

type (
	// ValidationSeverity indicates the severity level of a validation error.
	ValidationSeverity int

	// InvalidValidationSeverityError is returned when a ValidationSeverity value is not recognized.
	// It wraps ErrInvalidValidationSeverity for errors.Is() compatibility.
	InvalidValidationSeverityError struct {
		Value ValidationSeverity
	}

	// ValidatorName identifies a validation rule (e.g., "sources", "scope-hive").
	// Must be non-empty and not whitespace-only.
	ValidatorName string

	// InvalidValidatorNameError is returned when a ValidatorName is empty or whitespace-only.
	InvalidValidatorNameError struct {
		Value ValidatorName
	}

	// ValidationError is a single violation found in a manifest.
	ValidationError struct {
		// Validator is the rule that produced this error.
		Validator ValidatorName
		// Field locates the offending entity (e.g., "payload 'ClassificationBanner.exe'").
		Field string
		// Message is the human-readable error message.
		Message string
		// Severity indicates whether this is an error or warning.
		Severity ValidationSeverity
		// Cause is the typed error behind the violation; errors.Is works through it.
		Cause error
		// File is the definition file the manifest came from, when known.
		File string
	}

	// ValidationErrors is a collection of validation errors that implements the error interface.
	ValidationErrors []ValidationError

	// ValidationContext carries what rules need beyond the manifest itself.
	ValidationContext struct {
		// BuildContext overrides the manifest's own when Root is non-empty.
		BuildContext BuildContext
		// StrictMode treats warnings as errors when true.
		StrictMode bool
		// FilePath is the definition file the manifest came from. Validate
		// stamps it on every ValidationError.
		FilePath string
	}

	// Validator checks one aspect of a manifest and returns every violation
	// it finds. Validators never modify the manifest.
	Validator interface {
		// Name returns a unique identifier for this validator.
		Name() ValidatorName
		// Validate checks the manifest and returns all validation errors found.
		Validate(ctx *ValidationContext, m *Manifest) []ValidationError
	}

	// FieldPath is a builder for constructing field paths such as
	// "directory '%ProgramFiles%\Vendor' payload 'app.exe'".
	FieldPath struct {
		parts []string
	}
)

// Error implements the error interface for InvalidValidationSeverityError.
func (e *InvalidValidationSeverityError) Error() string {
	return fmt.Sprintf("invalid validation severity %d (valid: 0=error, 1=warning)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidValidationSeverityError) Unwrap() error {
	return ErrInvalidValidationSeverity
}

// IsValid returns whether the ValidationSeverity is one of the defined severity levels,
// and a list of validation errors if it is not.
func (s ValidationSeverity) IsValid() (bool, []error) {
	switch s {
	case SeverityError, SeverityWarning:
		return true, nil
	default:
		return false, []error{&InvalidValidationSeverityError{Value: s}}
	}
}

// String returns a human-readable representation of the severity level.
func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Error implements the error interface for InvalidValidatorNameError.
func (e *InvalidValidatorNameError) Error() string {
	return fmt.Sprintf("invalid validator name: %q", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidValidatorNameError) Unwrap() error {
	return ErrInvalidValidatorName
}

// IsValid returns whether the ValidatorName is non-empty and not whitespace-only,
// and a list of validation errors if it is not.
func (n ValidatorName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidValidatorNameError{Value: n}}
	}
	return true, nil
}

// String returns the string representation of the ValidatorName.
func (n ValidatorName) String() string {
	return string(n)
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	return msg
}

// Unwrap returns the typed cause so errors.Is(v, ErrMissingSource) matches.
func (e ValidationError) Unwrap() error {
	return e.Cause
}

// IsError returns true if this is an error-level validation issue.
func (e ValidationError) IsError() bool {
	return e.Severity == SeverityError
}

// IsWarning returns true if this is a warning-level validation issue.
func (e ValidationError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// Error implements the error interface by joining all error messages.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}

	var b strings.Builder
	b.WriteString("validation failed with ")
	errorCount := errs.ErrorCount()
	warningCount := errs.WarningCount()

	if errorCount > 0 {
		b.WriteString(plural(errorCount, "error"))
	}
	if warningCount > 0 {
		if errorCount > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(plural(warningCount, "warning"))
	}
	b.WriteString(":\n")

	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}

	return b.String()
}

// Unwrap exposes every entry so errors.Is finds any rule's sentinel.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(errs)+1)
	if errs.HasErrors() {
		out = append(out, ErrValidationFailed)
	}
	for _, e := range errs {
		out = append(out, e)
	}
	return out
}

// HasErrors returns true if there are any error-level validation issues.
func (errs ValidationErrors) HasErrors() bool {
	for _, e := range errs {
		if e.IsError() {
			return true
		}
	}
	return false
}

// HasWarnings returns true if there are any warning-level validation issues.
func (errs ValidationErrors) HasWarnings() bool {
	for _, e := range errs {
		if e.IsWarning() {
			return true
		}
	}
	return false
}

// Errors returns only the error-level validation issues.
func (errs ValidationErrors) Errors() ValidationErrors {
	var result ValidationErrors
	for _, e := range errs {
		if e.IsError() {
			result = append(result, e)
		}
	}
	return result
}

// Warnings returns only the warning-level validation issues.
func (errs ValidationErrors) Warnings() ValidationErrors {
	var result ValidationErrors
	for _, e := range errs {
		if e.IsWarning() {
			result = append(result, e)
		}
	}
	return result
}

// ErrorCount returns the number of error-level validation issues.
func (errs ValidationErrors) ErrorCount() int {
	return len(errs.Errors())
}

// WarningCount returns the number of warning-level validation issues.
func (errs ValidationErrors) WarningCount() int {
	return len(errs.Warnings())
}

// ByValidator returns the issues produced by one rule.
func (errs ValidationErrors) ByValidator(name ValidatorName) ValidationErrors {
	var result ValidationErrors
	for _, e := range errs {
		if e.Validator == name {
			result = append(result, e)
		}
	}
	return result
}

// NewFieldPath creates a new empty FieldPath builder.
func NewFieldPath() *FieldPath {
	return &FieldPath{}
}

// String returns the complete field path as a string.
func (p *FieldPath) String() string {
	return strings.Join(p.parts, " ")
}

// Identity adds the identity context to the path.
func (p *FieldPath) Identity() *FieldPath {
	p.parts = append(p.parts, "identity")
	return p
}

// Directory adds a directory context to the path.
func (p *FieldPath) Directory(path []string) *FieldPath {
	p.parts = append(p.parts, "directory '"+JoinPath(path)+"'")
	return p
}

// Payload adds a payload context to the path.
func (p *FieldPath) Payload(name string) *FieldPath {
	p.parts = append(p.parts, "payload '"+name+"'")
	return p
}

// Registry adds a registry value context to the path.
func (p *FieldPath) Registry(e RegistryEntry) *FieldPath {
	p.parts = append(p.parts, "registry '"+e.String()+"'")
	return p
}

// RegistryIndex adds a registry context by index to the path (1-indexed for user display).
func (p *FieldPath) RegistryIndex(index int) *FieldPath {
	p.parts = append(p.parts, "registry #"+strconv.Itoa(index+1))
	return p
}

// Field adds a generic field context to the path.
func (p *FieldPath) Field(name string) *FieldPath {
	p.parts = append(p.parts, name)
	return p
}

// Copy returns a shallow copy of the FieldPath.
func (p *FieldPath) Copy() *FieldPath {
	parts := make([]string, len(p.parts))
	copy(parts, p.parts)
	return &FieldPath{parts: parts}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
