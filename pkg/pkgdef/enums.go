// SPDX-License-Identifier: MPL-2.0

package pkgdef

import "strings"

const (
	// ScopePerMachine installs once for every user and requires elevation.
	ScopePerMachine Scope = "perMachine"
	// ScopePerUser installs for the current user only.
	ScopePerUser Scope = "perUser"

	// ArchX86 targets 32-bit x86.
	ArchX86 Architecture = "x86"
	// ArchX64 targets x86-64.
	ArchX64 Architecture = "x64"
	// ArchARM64 targets 64-bit ARM.
	ArchARM64 Architecture = "arm64"

	// HiveLocalMachine is HKEY_LOCAL_MACHINE.
	HiveLocalMachine Hive = "LocalMachine"
	// HiveCurrentUser is HKEY_CURRENT_USER.
	HiveCurrentUser Hive = "CurrentUser"
)

type (
	// Scope is the install scope of a package.
	Scope string

	// Architecture is the single CPU architecture a package targets.
	Architecture string

	// Hive is the registry root a value is written under.
	Hive string
)

// ParseScope accepts "perMachine"/"perUser" case-insensitively, with or
// without a hyphen.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "permachine", "machine":
		return ScopePerMachine, nil
	case "peruser", "user":
		return ScopePerUser, nil
	default:
		return "", &InvalidScopeError{Value: Scope(s)}
	}
}

// IsValid returns whether the Scope is one of the defined scopes.
func (s Scope) IsValid() (bool, []error) {
	switch s {
	case ScopePerMachine, ScopePerUser:
		return true, nil
	default:
		return false, []error{&InvalidScopeError{Value: s}}
	}
}

// String returns the string representation of the Scope.
func (s Scope) String() string { return string(s) }

// ParseArchitecture accepts the canonical names plus the common aliases
// "amd64", "x86_64", "i386" and "aarch64".
func ParseArchitecture(s string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86", "i386", "i686", "386":
		return ArchX86, nil
	case "x64", "amd64", "x86_64":
		return ArchX64, nil
	case "arm64", "aarch64":
		return ArchARM64, nil
	default:
		return "", &InvalidArchitectureError{Value: Architecture(s)}
	}
}

// IsValid returns whether the Architecture is one of the defined architectures.
func (a Architecture) IsValid() (bool, []error) {
	switch a {
	case ArchX86, ArchX64, ArchARM64:
		return true, nil
	default:
		return false, []error{&InvalidArchitectureError{Value: a}}
	}
}

// Is64Bit reports whether the architecture uses the 64-bit program folders.
func (a Architecture) Is64Bit() bool {
	return a == ArchX64 || a == ArchARM64
}

// String returns the string representation of the Architecture.
func (a Architecture) String() string { return string(a) }

// ParseHive accepts "LocalMachine"/"CurrentUser", the HKLM/HKCU
// abbreviations and the HKEY_* names, case-insensitively.
func ParseHive(s string) (Hive, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOCALMACHINE", "HKLM", "HKEY_LOCAL_MACHINE":
		return HiveLocalMachine, nil
	case "CURRENTUSER", "HKCU", "HKEY_CURRENT_USER":
		return HiveCurrentUser, nil
	default:
		return "", &InvalidHiveError{Value: Hive(s)}
	}
}

// IsValid returns whether the Hive is one of the defined hives.
func (h Hive) IsValid() (bool, []error) {
	switch h {
	case HiveLocalMachine, HiveCurrentUser:
		return true, nil
	default:
		return false, []error{&InvalidHiveError{Value: h}}
	}
}

// Scope returns the install scope that owns the hive.
func (h Hive) Scope() Scope {
	if h == HiveCurrentUser {
		return ScopePerUser
	}
	return ScopePerMachine
}

// Abbrev returns the short root name ("HKLM", "HKCU").
func (h Hive) Abbrev() string {
	switch h {
	case HiveLocalMachine:
		return "HKLM"
	case HiveCurrentUser:
		return "HKCU"
	default:
		return string(h)
	}
}

// String returns the string representation of the Hive.
func (h Hive) String() string { return string(h) }
