// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"fmt"
	"strings"

	"github.com/winpkg/winpkg/pkg/platform"
)

// RunKeyPath is the per-logon auto-start key. Under LocalMachine it starts
// the program for every user who logs on; under CurrentUser only for that user.
const RunKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

type (
	// RegistryEntry is a string value written at install time and removed on uninstall.
	// ValueData is a Windows Installer formatted string: [INSTALLDIR] and
	// other [Property] references are expanded by the install engine.
	RegistryEntry struct {
		Hive      Hive   `json:"hive"`
		KeyPath   string `json:"key"`
		ValueName string `json:"name"`
		ValueData string `json:"value"`
		// AllowScopeMismatch records that writing a hive outside the
		// package's install scope is intentional.
		AllowScopeMismatch bool `json:"allow_scope_mismatch,omitempty"`
	}

	// RegistryOption adjusts a RegistryEntry while it is being added.
	RegistryOption func(*RegistryEntry)
)

// AllowScopeMismatch marks the entry as an explicit opt-in to a hive
// outside the install scope.
func AllowScopeMismatch() RegistryOption {
	return func(e *RegistryEntry) {
		e.AllowScopeMismatch = true
	}
}

// String returns Hive\Key\Name for messages.
func (e RegistryEntry) String() string {
	name := e.ValueName
	if name == "" {
		name = "(Default)"
	}
	return fmt.Sprintf(`%s\%s\%s`, e.Hive.Abbrev(), e.KeyPath, name)
}

// sameValue reports whether two entries target the same registry value.
// Registry names are case-insensitive.
func (e RegistryEntry) sameValue(o RegistryEntry) bool {
	return e.Hive == o.Hive &&
		strings.EqualFold(e.KeyPath, o.KeyPath) &&
		strings.EqualFold(e.ValueName, o.ValueName)
}

// ValidateKeyPath checks a key path relative to its hive, such as
// `Software\Microsoft\Windows\CurrentVersion\Run`.
func ValidateKeyPath(keyPath string) error {
	if strings.TrimSpace(keyPath) == "" {
		return &InvalidKeyPathError{KeyPath: keyPath, Reason: "cannot be empty"}
	}
	if strings.ContainsRune(keyPath, '\x00') {
		return &InvalidKeyPathError{KeyPath: keyPath, Reason: "contains a NUL byte"}
	}
	if strings.HasPrefix(keyPath, `\`) || strings.HasSuffix(keyPath, `\`) {
		return &InvalidKeyPathError{KeyPath: keyPath, Reason: "cannot start or end with a backslash"}
	}

	first, _, _ := strings.Cut(keyPath, `\`)
	if _, err := ParseHive(first); err == nil || strings.HasPrefix(strings.ToUpper(first), "HKEY_") {
		return &InvalidKeyPathError{KeyPath: keyPath, Reason: "must be relative to the hive; declare the hive separately"}
	}

	for _, segment := range strings.Split(keyPath, `\`) {
		if segment == "" {
			return &InvalidKeyPathError{KeyPath: keyPath, Reason: "contains an empty key name"}
		}
		if strings.TrimSpace(segment) != segment {
			return &InvalidKeyPathError{KeyPath: keyPath, Reason: fmt.Sprintf("key name %q has leading or trailing spaces", segment)}
		}
		if len(segment) > platform.MaxRegistryKeyNameLength {
			return &InvalidKeyPathError{KeyPath: keyPath, Reason: fmt.Sprintf("key name longer than %d characters", platform.MaxRegistryKeyNameLength)}
		}
		for _, r := range segment {
			if r < 32 {
				return &InvalidKeyPathError{KeyPath: keyPath, Reason: "contains a control character"}
			}
		}
	}
	return nil
}

// ValidateValueName checks a registry value name. The empty name is the key's default value.
func ValidateValueName(name string) error {
	if len(name) > platform.MaxRegistryValueNameLength {
		return &InvalidKeyPathError{KeyPath: name, Reason: fmt.Sprintf("value name longer than %d characters", platform.MaxRegistryValueNameLength)}
	}
	if strings.ContainsRune(name, '\x00') {
		return &InvalidKeyPathError{KeyPath: name, Reason: "value name contains a NUL byte"}
	}
	return nil
}
