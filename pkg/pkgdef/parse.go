// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/winpkg/winpkg/pkg/cueutil"
	"github.com/winpkg/winpkg/pkg/fspath"
	"github.com/winpkg/winpkg/pkg/types"
)

const (
	// FormatCUE is the primary definition format.
	FormatCUE Format = "cue"
	// FormatYAML is decoded with known fields only.
	FormatYAML Format = "yaml"
	// FormatTOML is decoded with unknown fields rejected.
	FormatTOML Format = "toml"
	// FormatHCL uses file and registry blocks and exposes env.* to expressions.
	FormatHCL Format = "hcl"
)

// ErrDefinitionNotFound is returned by FindDefinition when no default file exists.
var ErrDefinitionNotFound = errors.New("no package definition found")

// DefaultFileNames are searched in order by FindDefinition.
var DefaultFileNames = []string{"winpkg.cue", "winpkg.yaml", "winpkg.yml", "winpkg.toml", "winpkg.hcl"}

// Format is a definition file format.
type Format string

// FormatOf returns the format for path's extension.
func FormatOf(path types.FilesystemPath) (Format, error) {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", &UnsupportedFormatError{Path: path}
	}
}

// FindDefinition returns the first of DefaultFileNames present in dir.
func FindDefinition(dir types.FilesystemPath) (types.FilesystemPath, error) {
	for _, name := range DefaultFileNames {
		candidate := fspath.JoinStr(dir, name)
		if info, err := os.Stat(string(candidate)); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrDefinitionNotFound, dir, strings.Join(DefaultFileNames, ", "))
}

// Parse reads and decodes a definition file.
func Parse(path types.FilesystemPath) (*Definition, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read definition at %s: %w", path, err)
	}
	return ParseBytes(data, format, string(path))
}

// ParseBytes decodes definition content. filename is used in error messages.
func ParseBytes(data []byte, format Format, filename string) (*Definition, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}
	switch format {
	case FormatCUE:
		return parseCUE(data, filename)
	case FormatYAML:
		return parseYAML(data, filename)
	case FormatTOML:
		return parseTOML(data, filename)
	case FormatHCL:
		return parseHCL(data, filename)
	default:
		return nil, &UnsupportedFormatError{Path: types.FilesystemPath(filename)}
	}
}

// Load parses path and assembles it. Payload sources resolve against
// contextDir, or the definition's directory when contextDir is empty.
func Load(path, contextDir types.FilesystemPath) (*Definition, *Manifest, error) {
	def, err := Parse(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := Assemble(def, NewBuildContext(DefaultContextDir(path, contextDir)))
	if err != nil {
		return def, nil, err
	}
	return def, m, nil
}

// DefaultContextDir returns contextDir, or the directory holding path.
// A relative contextDir is taken relative to the definition's directory.
func DefaultContextDir(path, contextDir types.FilesystemPath) types.FilesystemPath {
	base := fspath.Dir(path)
	if contextDir == "" {
		return base
	}
	if fspath.IsAbs(contextDir) {
		return contextDir
	}
	return fspath.Join(base, contextDir)
}
