// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the conversion of
// Windows-style definition paths to host paths.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/winpkg/winpkg/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join for a typed base and raw string segments.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base wraps filepath.Base for FilesystemPath.
func Base(p types.FilesystemPath) string {
	return filepath.Base(string(p))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath. Windows drive paths
// ("C:\...") and UNC paths are treated as absolute on every host so a
// definition written on Windows resolves the same way elsewhere.
func IsAbs(p types.FilesystemPath) bool {
	s := string(p)
	if filepath.IsAbs(s) {
		return true
	}
	if len(s) >= 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/') {
		return true
	}
	return strings.HasPrefix(s, `\\`)
}

// FromDefinition converts a path written in a definition file to a host
// path. Definitions are usually authored on Windows, so backslashes are
// accepted as separators on every host.
func FromDefinition(p string) types.FilesystemPath {
	if filepath.Separator != '\\' {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	return types.FilesystemPath(filepath.FromSlash(p))
}

// Resolve returns p as an absolute path, interpreting relative paths
// against base.
func Resolve(base, p types.FilesystemPath) (types.FilesystemPath, error) {
	if IsAbs(p) {
		return Clean(p), nil
	}
	return Abs(Join(base, p))
}
