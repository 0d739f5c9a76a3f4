// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"errors"
	"fmt"
	"strings"

	"github.com/winpkg/winpkg/pkg/types"
)

var (
	// ErrInvalidIdentity is returned for a malformed package id, an empty
	// name or manufacturer, or a version with negative components.
	ErrInvalidIdentity = errors.New("invalid product identity")
	// ErrMissingSource is returned when a payload source is not a readable file.
	ErrMissingSource = errors.New("missing payload source")
	// ErrDuplicateDestination is returned when two payloads in one directory share a name.
	ErrDuplicateDestination = errors.New("duplicate destination name")
	// ErrInvalidKeyPath is returned for an empty or malformed registry key path.
	ErrInvalidKeyPath = errors.New("invalid registry key path")
	// ErrIncompleteManifest is returned by Build when identity or the install directory is unset.
	ErrIncompleteManifest = errors.New("incomplete manifest")
	// ErrInvalidInstallDir is returned for an install path with an unknown root or bad segments.
	ErrInvalidInstallDir = errors.New("invalid install directory")
	// ErrInvalidDestination is returned when a destination name is not a legal Windows file name.
	ErrInvalidDestination = errors.New("invalid destination name")
	// ErrScopeMismatch is returned when a registry hive does not fit the install scope.
	ErrScopeMismatch = errors.New("registry hive does not match install scope")
	// ErrDuplicateRegistryValue is returned when the same hive/key/name is declared twice.
	ErrDuplicateRegistryValue = errors.New("duplicate registry value")
	// ErrInvalidScope is returned when a Scope value is not recognized.
	ErrInvalidScope = errors.New("invalid install scope")
	// ErrInvalidArchitecture is returned when an Architecture value is not recognized.
	ErrInvalidArchitecture = errors.New("invalid architecture")
	// ErrInvalidHive is returned when a Hive value is not recognized.
	ErrInvalidHive = errors.New("invalid registry hive")
	// ErrFormattedString is returned for malformed or unresolved [Property] references.
	ErrFormattedString = errors.New("invalid formatted string")
	// ErrUnsupportedFormat is returned when a definition file extension is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported definition format")
)

type (
	// InvalidIdentityError describes which identity field is wrong and why.
	InvalidIdentityError struct {
		Field  string
		Value  string
		Reason string
	}

	// MissingSourceError names the payload source exactly as declared and
	// the path it resolved to.
	MissingSourceError struct {
		Path     types.FilesystemPath
		Resolved types.FilesystemPath
		Cause    error
	}

	// DuplicateDestinationError names the colliding file and its directory.
	DuplicateDestinationError struct {
		Directory string
		Name      string
	}

	// InvalidKeyPathError describes a malformed registry key path.
	InvalidKeyPathError struct {
		KeyPath string
		Reason  string
	}

	// IncompleteManifestError lists the required parts that were never set.
	IncompleteManifestError struct {
		Missing []string
	}

	// InvalidInstallDirError describes a bad install directory path.
	InvalidInstallDirError struct {
		Path   string
		Reason string
	}

	// InvalidDestinationError wraps the platform filename rule that failed.
	InvalidDestinationError struct {
		Name  string
		Cause error
	}

	// ScopeMismatchError names the registry value written to a hive the
	// install scope cannot own.
	ScopeMismatchError struct {
		Scope   Scope
		Hive    Hive
		KeyPath string
	}

	// FolderScopeError names a root folder that belongs to the other install scope.
	FolderScopeError struct {
		Scope  Scope
		Folder KnownFolder
	}

	// DuplicateRegistryValueError names the value declared more than once.
	DuplicateRegistryValueError struct {
		Hive      Hive
		KeyPath   string
		ValueName string
	}

	// InvalidScopeError is returned when a Scope value is not recognized.
	InvalidScopeError struct {
		Value Scope
	}

	// InvalidArchitectureError is returned when an Architecture value is not recognized.
	InvalidArchitectureError struct {
		Value Architecture
	}

	// InvalidHiveError is returned when a Hive value is not recognized.
	InvalidHiveError struct {
		Value Hive
	}

	// FormattedStringError describes a bad [Property] reference in a value.
	FormattedStringError struct {
		Value  string
		Reason string
	}

	// UnsupportedFormatError names the file whose extension is not recognized.
	UnsupportedFormatError struct {
		Path types.FilesystemPath
	}
)

func (e *InvalidIdentityError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidIdentity for errors.Is() compatibility.
func (e *InvalidIdentityError) Unwrap() error { return ErrInvalidIdentity }

func (e *MissingSourceError) Error() string {
	msg := fmt.Sprintf("payload source '%s' is not a readable file", e.Path)
	if e.Resolved != "" && e.Resolved != e.Path {
		msg += fmt.Sprintf(" (resolved to %s)", e.Resolved)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrMissingSource for errors.Is() compatibility.
func (e *MissingSourceError) Unwrap() error { return ErrMissingSource }

func (e *DuplicateDestinationError) Error() string {
	return fmt.Sprintf("destination '%s' is declared more than once in %s", e.Name, e.Directory)
}

// Unwrap returns ErrDuplicateDestination for errors.Is() compatibility.
func (e *DuplicateDestinationError) Unwrap() error { return ErrDuplicateDestination }

func (e *InvalidKeyPathError) Error() string {
	return fmt.Sprintf("invalid registry key path '%s': %s", e.KeyPath, e.Reason)
}

// Unwrap returns ErrInvalidKeyPath for errors.Is() compatibility.
func (e *InvalidKeyPathError) Unwrap() error { return ErrInvalidKeyPath }

func (e *IncompleteManifestError) Error() string {
	return "incomplete manifest: missing " + strings.Join(e.Missing, " and ")
}

// Unwrap returns ErrIncompleteManifest for errors.Is() compatibility.
func (e *IncompleteManifestError) Unwrap() error { return ErrIncompleteManifest }

func (e *InvalidInstallDirError) Error() string {
	return fmt.Sprintf("invalid install directory '%s': %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidInstallDir for errors.Is() compatibility.
func (e *InvalidInstallDirError) Unwrap() error { return ErrInvalidInstallDir }

func (e *InvalidDestinationError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return fmt.Sprintf("invalid destination name %q", e.Name)
}

// Unwrap returns ErrInvalidDestination for errors.Is() compatibility.
func (e *InvalidDestinationError) Unwrap() error { return ErrInvalidDestination }

func (e *ScopeMismatchError) Error() string {
	return fmt.Sprintf("%s package writes %s\\%s; mark the value allow_scope_mismatch if this is intended",
		e.Scope, e.Hive, e.KeyPath)
}

// Unwrap returns ErrScopeMismatch for errors.Is() compatibility.
func (e *ScopeMismatchError) Unwrap() error { return ErrScopeMismatch }

func (e *FolderScopeError) Error() string {
	if e.Folder.IsPerUser() {
		return fmt.Sprintf("%s package installs into the per-user folder %s", e.Scope, e.Folder.Token())
	}
	return fmt.Sprintf("%s package installs into the machine-wide folder %s, which needs elevation", e.Scope, e.Folder.Token())
}

// Unwrap returns ErrScopeMismatch for errors.Is() compatibility.
func (e *FolderScopeError) Unwrap() error { return ErrScopeMismatch }

func (e *DuplicateRegistryValueError) Error() string {
	name := e.ValueName
	if name == "" {
		name = "(Default)"
	}
	return fmt.Sprintf("registry value %s\\%s\\%s is declared more than once", e.Hive, e.KeyPath, name)
}

// Unwrap returns ErrDuplicateRegistryValue for errors.Is() compatibility.
func (e *DuplicateRegistryValueError) Unwrap() error { return ErrDuplicateRegistryValue }

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid install scope %q (valid: %s, %s)", e.Value, ScopePerMachine, ScopePerUser)
}

// Unwrap returns ErrInvalidScope for errors.Is() compatibility.
func (e *InvalidScopeError) Unwrap() error { return ErrInvalidScope }

func (e *InvalidArchitectureError) Error() string {
	return fmt.Sprintf("invalid architecture %q (valid: %s, %s, %s)", e.Value, ArchX86, ArchX64, ArchARM64)
}

// Unwrap returns ErrInvalidArchitecture for errors.Is() compatibility.
func (e *InvalidArchitectureError) Unwrap() error { return ErrInvalidArchitecture }

func (e *InvalidHiveError) Error() string {
	return fmt.Sprintf("invalid registry hive %q (valid: %s, %s)", e.Value, HiveLocalMachine, HiveCurrentUser)
}

// Unwrap returns ErrInvalidHive for errors.Is() compatibility.
func (e *InvalidHiveError) Unwrap() error { return ErrInvalidHive }

func (e *FormattedStringError) Error() string {
	return fmt.Sprintf("formatted value '%s': %s", e.Value, e.Reason)
}

// Unwrap returns ErrFormattedString for errors.Is() compatibility.
func (e *FormattedStringError) Unwrap() error { return ErrFormattedString }

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported definition file %s (expected .cue, .yaml, .yml, .toml or .hcl)", e.Path)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }
