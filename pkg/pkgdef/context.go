// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"fmt"
	"os"

	"github.com/winpkg/winpkg/pkg/fspath"
	"github.com/winpkg/winpkg/pkg/types"
)

// BuildContext is the directory payload sources are resolved against.
// The zero value resolves against the process working directory.
type BuildContext struct {
	Root types.FilesystemPath `json:"root,omitempty"`
}

// NewBuildContext returns a BuildContext rooted at root.
func NewBuildContext(root types.FilesystemPath) BuildContext {
	return BuildContext{Root: root}
}

// Resolve returns the absolute host path for a source as written in a definition.
func (c BuildContext) Resolve(source types.FilesystemPath) (types.FilesystemPath, error) {
	root := c.Root
	if root == "" {
		root = "."
	}
	return fspath.Resolve(root, fspath.FromDefinition(string(source)))
}

// CheckSource verifies that source names a readable regular file.
// Failures are *MissingSourceError carrying both the declared and resolved path.
func (c BuildContext) CheckSource(source types.FilesystemPath) (types.FilesystemPath, error) {
	if ok, errs := source.IsValid(); !ok {
		return "", &MissingSourceError{Path: source, Cause: errs[0]}
	}
	resolved, err := c.Resolve(source)
	if err != nil {
		return "", &MissingSourceError{Path: source, Cause: err}
	}

	f, err := os.Open(string(resolved))
	if err != nil {
		return "", &MissingSourceError{Path: source, Resolved: resolved, Cause: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &MissingSourceError{Path: source, Resolved: resolved, Cause: err}
	}
	if !info.Mode().IsRegular() {
		return "", &MissingSourceError{Path: source, Resolved: resolved, Cause: fmt.Errorf("%s is not a regular file", info.Mode().Type())}
	}
	return resolved, nil
}
