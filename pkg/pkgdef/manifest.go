// SPDX-License-Identifier: MPL-2.0

package pkgdef

import "strings"

// Manifest is the complete, assembled description of one installer package.
// Obtain one from Builder.Build; pass it through Certify before emitting.
type Manifest struct {
	Identity     ProductIdentity `json:"identity"`
	Scope        Scope           `json:"scope"`
	Architecture Architecture    `json:"architecture"`
	// OutputName is the artifact file name without extension.
	OutputName string `json:"output_name"`
	// Root is the install tree; its Name is a KnownFolder.
	Root *Directory `json:"root"`
	// InstallDir is the segment path from Root to the INSTALLDIR node.
	InstallDir   []string     `json:"install_dir"`
	BuildContext BuildContext `json:"build_context"`
}

// RootFolder returns the known folder the tree hangs from.
func (m *Manifest) RootFolder() KnownFolder {
	if m.Root == nil {
		return ""
	}
	f, _ := ParseKnownFolder(m.Root.Name)
	return f
}

// InstallDirNode returns the node that becomes INSTALLDIR, or nil.
func (m *Manifest) InstallDirNode() *Directory {
	if m.Root == nil {
		return nil
	}
	return m.Root.Find(m.InstallDir)
}

// InstallDirPath renders INSTALLDIR, e.g. `%ProgramFiles%\Department of War\ClassificationBanner`.
func (m *Manifest) InstallDirPath() string {
	if m.Root == nil {
		return ""
	}
	return JoinPath(append([]string{m.RootFolder().Token()}, m.InstallDir...))
}

// Payloads returns every payload in tree order with the path of its directory.
func (m *Manifest) Payloads() []PlacedPayload {
	var out []PlacedPayload
	if m.Root == nil {
		return out
	}
	_ = m.Root.Walk(func(path []string, node *Directory) error {
		for _, p := range node.Payloads {
			out = append(out, PlacedPayload{Directory: path, PayloadReference: p})
		}
		return nil
	})
	return out
}

// RegistryEntries returns every registry entry in tree order.
func (m *Manifest) RegistryEntries() []RegistryEntry {
	var out []RegistryEntry
	if m.Root == nil {
		return out
	}
	_ = m.Root.Walk(func(_ []string, node *Directory) error {
		out = append(out, node.Registry...)
		return nil
	})
	return out
}

// Clone returns a deep copy of m.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}
	c := *m
	c.Root = m.Root.Clone()
	c.InstallDir = append([]string(nil), m.InstallDir...)
	return &c
}

// PlacedPayload is a payload together with the directory it is installed into.
type PlacedPayload struct {
	Directory []string
	PayloadReference
}

// Location renders the payload's install path for messages.
func (p PlacedPayload) Location() string {
	return strings.Join(append(append([]string(nil), p.Directory...), p.DestinationName), `\`)
}
