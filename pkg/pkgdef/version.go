// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"fmt"
	"strconv"
	"strings"
)

// Windows Installer ProductVersion limits (major.minor.build).
const (
	MaxVersionMajor = 255
	MaxVersionMinor = 255
	MaxVersionBuild = 65535
)

// Version is a four-part product version: major.minor.build.revision.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// ParseVersion parses "1", "1.3", "1.3.0" or "1.3.0.0". Missing components are zero.
// Non-numeric, negative, or more than four components fail with ErrInvalidIdentity.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, &InvalidIdentityError{Field: "version", Reason: "cannot be empty"}
	}

	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return Version{}, &InvalidIdentityError{Field: "version", Value: s, Reason: "has more than four components"}
	}

	var nums [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, &InvalidIdentityError{Field: "version", Value: s, Reason: fmt.Sprintf("component %d is not a number", i+1)}
		}
		nums[i] = n
	}

	v := Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}
	if ok, errs := v.IsValid(); !ok {
		return Version{}, errs[0]
	}
	return v, nil
}

// MustParseVersion is ParseVersion for literals known to be valid. It panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the dotted four-part form, e.g. "1.3.0.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// IsValid reports whether every component is non-negative.
func (v Version) IsValid() (bool, []error) {
	var errs []error
	for _, c := range []struct {
		name  string
		value int
	}{
		{"major", v.Major},
		{"minor", v.Minor},
		{"build", v.Build},
		{"revision", v.Revision},
	} {
		if c.value < 0 {
			errs = append(errs, &InvalidIdentityError{
				Field:  "version",
				Value:  v.String(),
				Reason: fmt.Sprintf("%s component %d is negative", c.name, c.value),
			})
		}
	}
	return len(errs) == 0, errs
}

// WithinInstallerRange reports whether the version fits the Windows
// Installer ProductVersion limits.
func (v Version) WithinInstallerRange() bool {
	return v.Major <= MaxVersionMajor && v.Minor <= MaxVersionMinor && v.Build <= MaxVersionBuild
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
