// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"slices"
	"strings"
)

// KnownProperties are the installer properties a registry value may
// reference without a warning.
var KnownProperties = []string{
	"INSTALLDIR",
	"ProgramFilesFolder",
	"ProgramFiles64Folder",
	"LocalAppDataFolder",
	"AppDataFolder",
	"CommonAppDataFolder",
	"ProductName",
	"Manufacturer",
	"ProductVersion",
}

// FormattedRef is one bracketed reference inside a formatted string.
type FormattedRef struct {
	// Raw is the text between the brackets, e.g. "INSTALLDIR" or "#app.exe".
	Raw string
	// Start and End are byte offsets of the brackets in the source string.
	Start, End int
}

// Kind returns the reference prefix: '#' or '!' for files, '$' for
// components, '%' for environment variables, '\\' for escapes, '~' for
// the null character, or 0 for a property.
func (r FormattedRef) Kind() byte {
	if r.Raw == "" {
		return 0
	}
	switch c := r.Raw[0]; c {
	case '#', '!', '$', '%', '\\', '~':
		return c
	}
	return 0
}

// Target returns the reference without its prefix.
func (r FormattedRef) Target() string {
	if r.Kind() == 0 {
		return r.Raw
	}
	return r.Raw[1:]
}

// ScanFormatted splits a formatted string into its bracketed references.
// Nested brackets are not supported by this scanner and are reported as
// unbalanced.
func ScanFormatted(s string) ([]FormattedRef, error) {
	var refs []FormattedRef
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ']':
			return refs, &FormattedStringError{Value: s, Reason: "unbalanced ']'"}
		case '[':
			// [\[] and [\]] escape a literal bracket.
			if strings.HasPrefix(s[i:], `[\[]`) || strings.HasPrefix(s[i:], `[\]]`) {
				refs = append(refs, FormattedRef{Raw: s[i+1 : i+3], Start: i, End: i + 3})
				i += 3
				continue
			}
			end := strings.IndexAny(s[i+1:], "[]")
			if end < 0 || s[i+1+end] == '[' {
				return refs, &FormattedStringError{Value: s, Reason: "unbalanced '['"}
			}
			refs = append(refs, FormattedRef{Raw: s[i+1 : i+1+end], Start: i, End: i + 1 + end})
			i += end + 1
		}
	}
	return refs, nil
}

// CheckFormatted returns a *FormattedStringError for unbalanced brackets and
// for every reference that names neither a known property nor, for [#x] and
// [!x], a destination in files (keys lower-cased).
func CheckFormatted(s string, files map[string]bool) []error {
	refs, err := ScanFormatted(s)
	if err != nil {
		return []error{err}
	}

	var errs []error
	for _, ref := range refs {
		switch ref.Kind() {
		case '#', '!':
			if !files[strings.ToLower(ref.Target())] {
				errs = append(errs, &FormattedStringError{Value: s, Reason: "[" + ref.Raw + "] does not name a declared payload"})
			}
		case '%', '\\', '~':
		case '$':
			errs = append(errs, &FormattedStringError{Value: s, Reason: "[" + ref.Raw + "] references a component, which is not declared by name"})
		default:
			if ref.Raw == "" {
				errs = append(errs, &FormattedStringError{Value: s, Reason: "empty []"})
			} else if !slices.Contains(KnownProperties, ref.Raw) {
				errs = append(errs, &FormattedStringError{Value: s, Reason: "[" + ref.Raw + "] is not a known property"})
			}
		}
	}
	return errs
}
