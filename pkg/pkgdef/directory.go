// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"strings"

	"github.com/winpkg/winpkg/pkg/platform"
)

const (
	// FolderProgramFiles is the program folder matching the package
	// architecture: 64-bit on x64/arm64, 32-bit on x86.
	FolderProgramFiles KnownFolder = "ProgramFiles"
	// FolderProgramFiles64 is always the 64-bit program folder.
	FolderProgramFiles64 KnownFolder = "ProgramFiles64"
	// FolderProgramFilesX86 is always the 32-bit program folder.
	FolderProgramFilesX86 KnownFolder = "ProgramFilesX86"
	// FolderCommonAppData is the machine-wide ProgramData folder.
	FolderCommonAppData KnownFolder = "CommonAppData"
	// FolderLocalAppData is the per-user local application data folder.
	FolderLocalAppData KnownFolder = "LocalAppData"
	// FolderAppData is the per-user roaming application data folder.
	FolderAppData KnownFolder = "AppData"
)

var knownFolders = []KnownFolder{
	FolderProgramFiles,
	FolderProgramFiles64,
	FolderProgramFilesX86,
	FolderCommonAppData,
	FolderLocalAppData,
	FolderAppData,
}

type (
	// KnownFolder is a well-known Windows root an install tree hangs from.
	// In install paths it is written as a %Token%, e.g. %ProgramFiles%.
	KnownFolder string

	// Directory is one node of the install tree. The root's Name is a
	// KnownFolder token; every other Name is a literal path segment.
	Directory struct {
		Name     string             `json:"name"`
		Children []*Directory       `json:"children,omitempty"`
		Payloads []PayloadReference `json:"payloads,omitempty"`
		Registry []RegistryEntry    `json:"registry,omitempty"`
	}
)

// ParseKnownFolder resolves "%ProgramFiles%" or "ProgramFiles" case-insensitively.
func ParseKnownFolder(token string) (KnownFolder, bool) {
	name := strings.Trim(strings.TrimSpace(token), "%")
	for _, f := range knownFolders {
		if strings.EqualFold(name, string(f)) {
			return f, true
		}
	}
	return "", false
}

// Token returns the %Name% form used in install paths.
func (k KnownFolder) Token() string { return "%" + string(k) + "%" }

// IsPerUser reports whether the folder lives under the user's profile.
func (k KnownFolder) IsPerUser() bool {
	return k == FolderLocalAppData || k == FolderAppData
}

// String returns the string representation of the KnownFolder.
func (k KnownFolder) String() string { return string(k) }

// SplitInstallPath splits `%ProgramFiles%\Department of War\ClassificationBanner`
// into its known-folder root and literal segments. Both separators are accepted.
func SplitInstallPath(path string) (KnownFolder, []string, error) {
	parts := splitSegments(path)
	if len(parts) == 0 {
		return "", nil, &InvalidInstallDirError{Path: path, Reason: "cannot be empty"}
	}

	root, ok := ParseKnownFolder(parts[0])
	if !ok || !strings.HasPrefix(parts[0], "%") {
		return "", nil, &InvalidInstallDirError{Path: path, Reason: "must start with a known folder token such as %ProgramFiles%"}
	}

	segments := parts[1:]
	for _, s := range segments {
		if s == "" {
			return "", nil, &InvalidInstallDirError{Path: path, Reason: "contains an empty segment"}
		}
		if s == "." || s == ".." {
			return "", nil, &InvalidInstallDirError{Path: path, Reason: "cannot contain relative segments"}
		}
		if err := platform.ValidateFilename(s); err != nil {
			return "", nil, &InvalidInstallDirError{Path: path, Reason: err.Error()}
		}
	}
	return root, segments, nil
}

// splitSegments splits on either separator, dropping one leading and one
// trailing separator.
func splitSegments(path string) []string {
	path = strings.TrimSpace(strings.ReplaceAll(path, "/", `\`))
	path = strings.TrimSuffix(strings.TrimPrefix(path, `\`), `\`)
	if path == "" {
		return nil
	}
	return strings.Split(path, `\`)
}

// Child returns the direct child with the given name (case-insensitive), or nil.
func (d *Directory) Child(name string) *Directory {
	for _, c := range d.Children {
		if platform.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Find follows segments from d and returns the node, or nil if any is missing.
func (d *Directory) Find(segments []string) *Directory {
	node := d
	for _, s := range segments {
		node = node.Child(s)
		if node == nil {
			return nil
		}
	}
	return node
}

// ensure follows segments from d, creating missing nodes.
func (d *Directory) ensure(segments []string) *Directory {
	node := d
	for _, s := range segments {
		next := node.Child(s)
		if next == nil {
			next = &Directory{Name: s}
			node.Children = append(node.Children, next)
		}
		node = next
	}
	return node
}

// Payload returns the payload with the given destination name (case-insensitive).
func (d *Directory) Payload(name string) (PayloadReference, bool) {
	for _, p := range d.Payloads {
		if platform.EqualFold(p.DestinationName, name) {
			return p, true
		}
	}
	return PayloadReference{}, false
}

// Walk visits d and every descendant depth-first in declaration order.
// path holds the names from the root to the visited node, inclusive.
func (d *Directory) Walk(fn func(path []string, node *Directory) error) error {
	return d.walk(nil, fn)
}

func (d *Directory) walk(parent []string, fn func([]string, *Directory) error) error {
	path := append(append([]string(nil), parent...), d.Name)
	if err := fn(path, d); err != nil {
		return err
	}
	for _, c := range d.Children {
		if err := c.walk(path, fn); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the subtree rooted at d.
func (d *Directory) Clone() *Directory {
	if d == nil {
		return nil
	}
	out := &Directory{
		Name:     d.Name,
		Payloads: append([]PayloadReference(nil), d.Payloads...),
		Registry: append([]RegistryEntry(nil), d.Registry...),
	}
	if len(d.Children) > 0 {
		out.Children = make([]*Directory, len(d.Children))
		for i, c := range d.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// JoinPath renders a node path as a Windows path for messages.
func JoinPath(path []string) string {
	return strings.Join(path, `\`)
}
