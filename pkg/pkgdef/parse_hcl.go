// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

type (
	hclDefinition struct {
		Name         string        `hcl:"name"`
		PackageID    string        `hcl:"package_id"`
		Manufacturer string        `hcl:"manufacturer"`
		Version      string        `hcl:"version"`
		Scope        string        `hcl:"scope,optional"`
		Architecture string        `hcl:"architecture,optional"`
		OutputName   string        `hcl:"output_name,optional"`
		InstallDir   string        `hcl:"install_dir"`
		Files        []hclFile     `hcl:"file,block"`
		Registry     []hclRegistry `hcl:"registry,block"`
	}

	hclFile struct {
		Source string `hcl:"source"`
		Name   string `hcl:"name,optional"`
		Dir    string `hcl:"dir,optional"`
	}

	hclRegistry struct {
		Hive               string `hcl:"hive"`
		Key                string `hcl:"key"`
		Name               string `hcl:"name,optional"`
		Value              string `hcl:"value"`
		AllowScopeMismatch bool   `hcl:"allow_scope_mismatch,optional"`
	}
)

// environ is swapped in tests.
var environ = os.Environ

func parseHCL(data []byte, filename string) (*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL definition %s: %s", filename, diags.Error())
	}

	var raw hclDefinition
	diags = gohcl.DecodeBody(file.Body, hclEvalContext(), &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL definition %s: %s", filename, diags.Error())
	}

	def := &Definition{
		Name:         raw.Name,
		PackageID:    raw.PackageID,
		Manufacturer: raw.Manufacturer,
		Version:      raw.Version,
		Scope:        raw.Scope,
		Architecture: raw.Architecture,
		OutputName:   raw.OutputName,
		InstallDir:   raw.InstallDir,
	}
	for _, f := range raw.Files {
		def.Files = append(def.Files, FileDefinition(f))
	}
	for _, r := range raw.Registry {
		def.Registry = append(def.Registry, RegistryDefinition(r))
	}
	return def, nil
}

// hclEvalContext exposes the process environment as env.NAME.
func hclEvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || !utf8.ValidString(value) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
