// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"fmt"
	"strings"

	"github.com/winpkg/winpkg/pkg/platform"
)

type (
	// PackageIDValidator checks that the package id is a usable UUID.
	PackageIDValidator struct{}
	// VersionValidator checks version components and Windows Installer ranges.
	VersionValidator struct{}
	// SourcesValidator checks that every payload source is a readable file.
	SourcesValidator struct{}
	// DestinationsValidator checks destination names and their uniqueness per directory.
	DestinationsValidator struct{}
	// ScopeHiveValidator checks registry hives and the root folder against the install scope.
	ScopeHiveValidator struct{}
	// IdentityValidator checks the product name, manufacturer, output name and architecture.
	IdentityValidator struct{}
	// RegistryValidator checks key paths, value names and duplicate values.
	RegistryValidator struct{}
	// FormattedValidator checks [Property] references inside registry values.
	FormattedValidator struct{}
)

// Name returns the validator name.
func (PackageIDValidator) Name() ValidatorName { return "package-id" }

// Validate checks the package id.
func (v PackageIDValidator) Validate(_ *ValidationContext, m *Manifest) []ValidationError {
	if ok, errs := m.Identity.PackageID.IsValid(); !ok {
		return []ValidationError{newError(v.Name(), NewFieldPath().Identity().Field("package_id"), errs[0])}
	}
	return nil
}

// Name returns the validator name.
func (VersionValidator) Name() ValidatorName { return "version" }

// Validate checks the version.
func (v VersionValidator) Validate(_ *ValidationContext, m *Manifest) []ValidationError {
	ver := m.Identity.Version
	field := NewFieldPath().Identity().Field("version")

	var out []ValidationError
	if ok, errs := ver.IsValid(); !ok {
		for _, err := range errs {
			out = append(out, newError(v.Name(), field, err))
		}
		return out
	}
	if !ver.WithinInstallerRange() {
		out = append(out, newWarning(v.Name(), field, &InvalidIdentityError{
			Field:  "version",
			Value:  ver.String(),
			Reason: fmt.Sprintf("exceeds the Windows Installer range %d.%d.%d", MaxVersionMajor, MaxVersionMinor, MaxVersionBuild),
		}))
	}
	if ver.Revision != 0 {
		out = append(out, newWarning(v.Name(), field, &InvalidIdentityError{
			Field:  "version",
			Value:  ver.String(),
			Reason: "the fourth component is ignored when Windows Installer compares versions for upgrades",
		}))
	}
	return out
}

// Name returns the validator name.
func (SourcesValidator) Name() ValidatorName { return "sources" }

// Validate checks every payload source.
func (v SourcesValidator) Validate(ctx *ValidationContext, m *Manifest) []ValidationError {
	bc := effectiveBuildContext(ctx, m)
	var out []ValidationError
	for _, p := range m.Payloads() {
		if _, err := bc.CheckSource(p.SourcePath); err != nil {
			out = append(out, newError(v.Name(), NewFieldPath().Directory(p.Directory).Payload(p.DestinationName), err))
		}
	}
	return out
}

// Name returns the validator name.
func (DestinationsValidator) Name() ValidatorName { return "destinations" }

// Validate checks directory and destination names.
func (v DestinationsValidator) Validate(_ *ValidationContext, m *Manifest) []ValidationError {
	if m.Root == nil {
		return []ValidationError{newError(v.Name(), NewFieldPath().Field("install_dir"), &IncompleteManifestError{Missing: []string{"install directory"}})}
	}

	var out []ValidationError
	if _, ok := ParseKnownFolder(m.Root.Name); !ok || !strings.HasPrefix(m.Root.Name, "%") {
		out = append(out, newError(v.Name(), NewFieldPath().Field("install_dir"),
			&InvalidInstallDirError{Path: m.Root.Name, Reason: "root must be a known folder token"}))
	}
	if m.InstallDirNode() == nil {
		out = append(out, newError(v.Name(), NewFieldPath().Field("install_dir"),
			&InvalidInstallDirError{Path: m.InstallDirPath(), Reason: "does not name a directory in the install tree"}))
	}

	_ = m.Root.Walk(func(path []string, node *Directory) error {
		field := NewFieldPath().Directory(path)
		if len(path) > 1 {
			if err := platform.ValidateFilename(node.Name); err != nil {
				out = append(out, newError(v.Name(), field, &InvalidInstallDirError{Path: JoinPath(path), Reason: err.Error()}))
			}
		}
		for i, c := range node.Children {
			for _, prev := range node.Children[:i] {
				if platform.EqualFold(prev.Name, c.Name) {
					out = append(out, newError(v.Name(), field.Copy().Field("child '"+c.Name+"'"),
						&InvalidInstallDirError{Path: JoinPath(append(path, c.Name)), Reason: "directory is declared more than once"}))
				}
			}
		}
		for i, p := range node.Payloads {
			pf := field.Copy().Payload(p.DestinationName)
			if err := ValidateDestinationName(p.DestinationName); err != nil {
				out = append(out, newError(v.Name(), pf, err))
			}
			for _, prev := range node.Payloads[:i] {
				if platform.EqualFold(prev.DestinationName, p.DestinationName) {
					out = append(out, newError(v.Name(), pf, &DuplicateDestinationError{Directory: JoinPath(path), Name: p.DestinationName}))
					break
				}
			}
			if c := node.Child(p.DestinationName); c != nil {
				out = append(out, newError(v.Name(), pf, &DuplicateDestinationError{Directory: JoinPath(path), Name: p.DestinationName}))
			}
		}
		return nil
	})
	return out
}

// Name returns the validator name.
func (ScopeHiveValidator) Name() ValidatorName { return "scope-hive" }

// Validate checks hives and the root folder against the scope.
func (v ScopeHiveValidator) Validate(_ *ValidationContext, m *Manifest) []ValidationError {
	if ok, errs := m.Scope.IsValid(); !ok {
		return []ValidationError{newError(v.Name(), NewFieldPath().Field("scope"), errs[0])}
	}

	var out []ValidationError
	if folder := m.RootFolder(); folder != "" {
		switch {
		case m.Scope == ScopePerMachine && folder.IsPerUser():
			out = append(out, newWarning(v.Name(), NewFieldPath().Field("install_dir"), &FolderScopeError{Scope: m.Scope, Folder: folder}))
		case m.Scope == ScopePerUser && !folder.IsPerUser():
			out = append(out, newWarning(v.Name(), NewFieldPath().Field("install_dir"), &FolderScopeError{Scope: m.Scope, Folder: folder}))
		}
	}

	for i, e := range m.RegistryEntries() {
		if ok, _ := e.Hive.IsValid(); !ok || e.AllowScopeMismatch {
			continue
		}
		if e.Hive.Scope() != m.Scope {
			out = append(out, newError(v.Name(), NewFieldPath().RegistryIndex(i),
				&ScopeMismatchError{Scope: m.Scope, Hive: e.Hive, KeyPath: e.KeyPath}))
		}
	}
	return out
}

// Name returns the validator name.
func (IdentityValidator) Name() ValidatorName { return "identity" }

// Validate checks the names and architecture.
func (v IdentityValidator) Validate(_ *ValidationContext, m *Manifest) []ValidationError {
	var out []ValidationError
	id := m.Identity
	if strings.TrimSpace(id.Name) == "" {
		out = append(out, newError(v.Name(), NewFieldPath().Identity().Field("name"),
			&InvalidIdentityError{Field: "name", Reason: "cannot be empty"}))
	}
	if strings.TrimSpace(id.Manufacturer) == "" {
		out = append(out, newError(v.Name(), NewFieldPath().Identity().Field("manufacturer"),
			&InvalidIdentityError{Field: "manufacturer", Reason: "cannot be empty"}))
	}
	if err := platform.ValidateFilename(m.OutputName); err != nil {
		out = append(out, newError(v.Name(), NewFieldPath().Field("output_name"),
			&InvalidIdentityError{Field: "output name", Value: m.OutputName, Reason: err.Error()}))
	}
	if ok, errs := m.Architecture.IsValid(); !ok {
		out = append(out, newError(v.Name(), NewFieldPath().Field("architecture"), errs[0]))
	}
	return out
}

// Name returns the validator name.
func (RegistryValidator) Name() ValidatorName { return "registry" }

// Validate checks every registry entry.
func (v RegistryValidator) Validate(_ *ValidationContext, m *Manifest) []ValidationError {
	var out []ValidationError
	entries := m.RegistryEntries()
	for i, e := range entries {
		field := NewFieldPath().RegistryIndex(i)
		if ok, errs := e.Hive.IsValid(); !ok {
			out = append(out, newError(v.Name(), field, errs[0]))
		}
		if err := ValidateKeyPath(e.KeyPath); err != nil {
			out = append(out, newError(v.Name(), field, err))
		}
		if err := ValidateValueName(e.ValueName); err != nil {
			out = append(out, newError(v.Name(), field, err))
		}
		for _, prev := range entries[:i] {
			if prev.sameValue(e) {
				out = append(out, newError(v.Name(), field,
					&DuplicateRegistryValueError{Hive: e.Hive, KeyPath: e.KeyPath, ValueName: e.ValueName}))
				break
			}
		}
	}
	return out
}

// Name returns the validator name.
func (FormattedValidator) Name() ValidatorName { return "formatted" }

// Validate checks registry value data.
func (v FormattedValidator) Validate(_ *ValidationContext, m *Manifest) []ValidationError {
	files := make(map[string]bool)
	for _, p := range m.Payloads() {
		files[strings.ToLower(p.DestinationName)] = true
	}

	var out []ValidationError
	for i, e := range m.RegistryEntries() {
		for _, err := range CheckFormatted(e.ValueData, files) {
			out = append(out, newWarning(v.Name(), NewFieldPath().RegistryIndex(i), err))
		}
	}
	return out
}

// DefaultValidators returns every built-in rule in reporting order.
func DefaultValidators() []Validator {
	return []Validator{
		PackageIDValidator{},
		VersionValidator{},
		IdentityValidator{},
		DestinationsValidator{},
		SourcesValidator{},
		ScopeHiveValidator{},
		RegistryValidator{},
		FormattedValidator{},
	}
}

func newError(name ValidatorName, field *FieldPath, cause error) ValidationError {
	return ValidationError{Validator: name, Field: field.String(), Message: cause.Error(), Severity: SeverityError, Cause: cause}
}

func newWarning(name ValidatorName, field *FieldPath, cause error) ValidationError {
	return ValidationError{Validator: name, Field: field.String(), Message: cause.Error(), Severity: SeverityWarning, Cause: cause}
}

func effectiveBuildContext(ctx *ValidationContext, m *Manifest) BuildContext {
	if ctx != nil && ctx.BuildContext.Root != "" {
		return ctx.BuildContext
	}
	return m.BuildContext
}
