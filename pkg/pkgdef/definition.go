// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"github.com/winpkg/winpkg/pkg/fspath"
)

type (
	// Definition is the file form of a package. Every supported format
	// decodes into it; Assemble turns it into a Manifest.
	Definition struct {
		Name         string               `json:"name" yaml:"name" toml:"name"`
		PackageID    string               `json:"package_id" yaml:"package_id" toml:"package_id"`
		Manufacturer string               `json:"manufacturer" yaml:"manufacturer" toml:"manufacturer"`
		Version      string               `json:"version" yaml:"version" toml:"version"`
		Scope        string               `json:"scope,omitempty" yaml:"scope,omitempty" toml:"scope,omitempty"`
		Architecture string               `json:"architecture,omitempty" yaml:"architecture,omitempty" toml:"architecture,omitempty"`
		OutputName   string               `json:"output_name,omitempty" yaml:"output_name,omitempty" toml:"output_name,omitempty"`
		InstallDir   string               `json:"install_dir" yaml:"install_dir" toml:"install_dir"`
		Files        []FileDefinition     `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
		Registry     []RegistryDefinition `json:"registry,omitempty" yaml:"registry,omitempty" toml:"registry,omitempty"`
	}

	// FileDefinition declares one payload. Dir is relative to install_dir.
	FileDefinition struct {
		Source string `json:"source" yaml:"source" toml:"source"`
		Name   string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
		Dir    string `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	}

	// RegistryDefinition declares one registry string value.
	RegistryDefinition struct {
		Hive               string `json:"hive" yaml:"hive" toml:"hive"`
		Key                string `json:"key" yaml:"key" toml:"key"`
		Name               string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
		Value              string `json:"value" yaml:"value" toml:"value"`
		AllowScopeMismatch bool   `json:"allow_scope_mismatch,omitempty" yaml:"allow_scope_mismatch,omitempty" toml:"allow_scope_mismatch,omitempty"`
	}
)

// Assemble builds a Manifest from d through a Builder, so every problem in
// the definition is reported together.
func Assemble(d *Definition, ctx BuildContext) (*Manifest, error) {
	b := NewBuilder(ctx)

	_ = b.WithIdentity(d.Name, d.PackageID, d.Manufacturer, Version{})
	_ = b.WithVersionString(d.Version)

	if d.Scope != "" {
		scope := Scope(d.Scope)
		if s, err := ParseScope(d.Scope); err == nil {
			scope = s
		}
		_ = b.WithScope(scope)
	}
	if d.Architecture != "" {
		arch := Architecture(d.Architecture)
		if a, err := ParseArchitecture(d.Architecture); err == nil {
			arch = a
		}
		_ = b.WithArchitecture(arch)
	}
	_ = b.WithOutputName(d.OutputName)
	_ = b.WithInstallDir(d.InstallDir)

	for _, f := range d.Files {
		_ = b.AddPayload(f.Dir, f.Source, f.Name)
	}
	for _, r := range d.Registry {
		hive := Hive(r.Hive)
		if h, err := ParseHive(r.Hive); err == nil {
			hive = h
		}
		var opts []RegistryOption
		if r.AllowScopeMismatch {
			opts = append(opts, AllowScopeMismatch())
		}
		_ = b.AddRegistryEntry(hive, r.Key, r.Name, r.Value, opts...)
	}

	return b.Build()
}

// OverridePrimarySource replaces the source of the first file with source,
// keeping the destination name it had. A definition without files gains one.
func (d *Definition) OverridePrimarySource(source string) {
	if len(d.Files) == 0 {
		d.Files = append(d.Files, FileDefinition{Source: source})
		return
	}
	first := &d.Files[0]
	if first.Name == "" {
		first.Name = fspath.Base(fspath.FromDefinition(first.Source))
	}
	first.Source = source
}
