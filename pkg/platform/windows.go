// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxFilenameLength is the longest file or directory name NTFS accepts.
	MaxFilenameLength = 255
	// MaxRegistryKeyNameLength is the longest single registry key name.
	MaxRegistryKeyNameLength = 255
	// MaxRegistryValueNameLength is the longest registry value name.
	MaxRegistryValueNameLength = 16383
)

// ErrInvalidFilename is the sentinel error wrapped by InvalidFilenameError.
var ErrInvalidFilename = errors.New("invalid windows filename")

// reservedNames are device names Windows refuses as file names, with or without an extension.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// InvalidFilenameError describes why a name cannot be used as a Windows file name.
type InvalidFilenameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("invalid windows filename %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidFilename for errors.Is() compatibility.
func (e *InvalidFilenameError) Unwrap() error { return ErrInvalidFilename }

// IsWindowsReservedName checks if a filename is a Windows reserved device name.
// The extension is ignored: "nul.txt" is reserved just like "NUL".
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.Index(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return reservedNames[upper]
}

// ValidateFilename checks that name is usable as a single Windows path segment.
func ValidateFilename(name string) error {
	if name == "" {
		return &InvalidFilenameError{Name: name, Reason: "cannot be empty"}
	}
	if len(name) > MaxFilenameLength {
		return &InvalidFilenameError{Name: name, Reason: fmt.Sprintf("too long (%d chars, max %d)", len(name), MaxFilenameLength)}
	}
	for _, c := range []rune{'<', '>', ':', '"', '/', '\\', '|', '?', '*'} {
		if strings.ContainsRune(name, c) {
			return &InvalidFilenameError{Name: name, Reason: fmt.Sprintf("contains invalid character '%c'", c)}
		}
	}
	for _, r := range name {
		if r < 32 {
			return &InvalidFilenameError{Name: name, Reason: "contains a control character"}
		}
	}
	if IsWindowsReservedName(name) {
		return &InvalidFilenameError{Name: name, Reason: "is a reserved device name"}
	}
	if strings.HasSuffix(name, " ") || strings.HasSuffix(name, ".") {
		return &InvalidFilenameError{Name: name, Reason: "cannot end with space or period"}
	}
	return nil
}

// EqualFold reports whether two Windows file names refer to the same entry.
// NTFS lookups are case-insensitive, so "App.exe" and "app.EXE" collide.
func EqualFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
