// SPDX-License-Identifier: MPL-2.0

package wix

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/winpkg/winpkg/pkg/pkgdef"
)

// Namespace is the WiX v4 source namespace.
const Namespace = "http://wixtoolset.org/schemas/v4/wxs"

// installDirID is the directory id the INSTALLDIR property resolves to.
const installDirID = "INSTALLDIR"

type (
	document struct {
		XMLName xml.Name `xml:"Wix"`
		Xmlns   string   `xml:"xmlns,attr"`
		Package pkg      `xml:"Package"`
	}

	pkg struct {
		Name          string        `xml:"Name,attr"`
		Manufacturer  string        `xml:"Manufacturer,attr"`
		Version       string        `xml:"Version,attr"`
		UpgradeCode   string        `xml:"UpgradeCode,attr"`
		Scope         string        `xml:"Scope,attr"`
		Language      string        `xml:"Language,attr"`
		MajorUpgrade  majorUpgrade  `xml:"MajorUpgrade"`
		MediaTemplate mediaTemplate `xml:"MediaTemplate"`
		Root          standardDir   `xml:"StandardDirectory"`
		Feature       feature       `xml:"Feature"`
	}

	majorUpgrade struct {
		DowngradeErrorMessage string `xml:"DowngradeErrorMessage,attr"`
	}

	mediaTemplate struct {
		EmbedCab string `xml:"EmbedCab,attr"`
	}

	standardDir struct {
		ID          string      `xml:"Id,attr"`
		Components  []component `xml:"Component"`
		Directories []directory `xml:"Directory"`
	}

	directory struct {
		ID          string      `xml:"Id,attr"`
		Name        string      `xml:"Name,attr"`
		Components  []component `xml:"Component"`
		Directories []directory `xml:"Directory"`
	}

	component struct {
		ID       string         `xml:"Id,attr"`
		File     *file          `xml:"File,omitempty"`
		Registry *registryValue `xml:"RegistryValue,omitempty"`
	}

	file struct {
		ID      string `xml:"Id,attr"`
		Name    string `xml:"Name,attr"`
		Source  string `xml:"Source,attr"`
		KeyPath string `xml:"KeyPath,attr"`
	}

	registryValue struct {
		Root    string `xml:"Root,attr"`
		Key     string `xml:"Key,attr"`
		Name    string `xml:"Name,attr,omitempty"`
		Type    string `xml:"Type,attr"`
		Value   string `xml:"Value,attr"`
		KeyPath string `xml:"KeyPath,attr"`
	}

	feature struct {
		ID    string         `xml:"Id,attr"`
		Title string         `xml:"Title,attr"`
		Level int            `xml:"Level,attr"`
		Refs  []componentRef `xml:"ComponentRef"`
	}

	componentRef struct {
		ID string `xml:"Id,attr"`
	}

	// renderer carries the state of one Render call.
	renderer struct {
		m       *pkgdef.Manifest
		fileIDs map[string]string
		refs    []componentRef
	}
)

// StandardDirectoryID maps a known folder to the WiX standard directory
// for the package architecture. %ProgramFiles% follows the architecture.
func StandardDirectoryID(folder pkgdef.KnownFolder, arch pkgdef.Architecture) string {
	switch folder {
	case pkgdef.FolderProgramFiles:
		if arch.Is64Bit() {
			return "ProgramFiles64Folder"
		}
		return "ProgramFilesFolder"
	case pkgdef.FolderProgramFiles64:
		return "ProgramFiles64Folder"
	case pkgdef.FolderProgramFilesX86:
		return "ProgramFilesFolder"
	case pkgdef.FolderCommonAppData:
		return "CommonAppDataFolder"
	case pkgdef.FolderLocalAppData:
		return "LocalAppDataFolder"
	case pkgdef.FolderAppData:
		return "AppDataFolder"
	default:
		return ""
	}
}

// Render returns the WiX source for m. Payload sources are written as
// absolute host paths resolved against m.BuildContext.
func Render(m *pkgdef.Manifest) ([]byte, error) {
	if m == nil || m.Root == nil {
		return nil, fmt.Errorf("render: %w", &pkgdef.IncompleteManifestError{Missing: []string{"install directory"}})
	}
	rootID := StandardDirectoryID(m.RootFolder(), m.Architecture)
	if rootID == "" {
		return nil, fmt.Errorf("render: %w", &pkgdef.InvalidInstallDirError{Path: m.Root.Name, Reason: "root must be a known folder token"})
	}

	r := &renderer{m: m, fileIDs: make(map[string]string)}
	r.collectFileIDs()

	root := standardDir{ID: rootID}
	var err error
	root.Components, err = r.components([]string{m.Root.Name}, m.Root)
	if err != nil {
		return nil, err
	}
	for _, child := range m.Root.Children {
		d, err := r.directory([]string{m.Root.Name}, child)
		if err != nil {
			return nil, err
		}
		root.Directories = append(root.Directories, d)
	}

	doc := document{
		Xmlns: Namespace,
		Package: pkg{
			Name:          m.Identity.Name,
			Manufacturer:  m.Identity.Manufacturer,
			Version:       m.Identity.Version.String(),
			UpgradeCode:   m.Identity.PackageID.Braced(),
			Scope:         string(m.Scope),
			Language:      "1033",
			MajorUpgrade:  majorUpgrade{DowngradeErrorMessage: "A newer version of [ProductName] is already installed."},
			MediaTemplate: mediaTemplate{EmbedCab: "yes"},
			Root:          root,
			Feature:       feature{ID: "Main", Title: m.Identity.Name, Level: 1, Refs: r.refs},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (r *renderer) collectFileIDs() {
	for _, p := range r.m.Payloads() {
		key := strings.ToLower(p.DestinationName)
		if _, seen := r.fileIDs[key]; !seen {
			r.fileIDs[key] = id("fil", append(p.Directory, p.DestinationName))
		}
	}
}

func (r *renderer) directory(parent []string, d *pkgdef.Directory) (directory, error) {
	path := append(append([]string(nil), parent...), d.Name)
	out := directory{ID: id("dir", path), Name: d.Name}
	if r.isInstallDir(path) {
		out.ID = installDirID
	}

	var err error
	if out.Components, err = r.components(path, d); err != nil {
		return directory{}, err
	}
	for _, child := range d.Children {
		c, err := r.directory(path, child)
		if err != nil {
			return directory{}, err
		}
		out.Directories = append(out.Directories, c)
	}
	return out, nil
}

func (r *renderer) components(path []string, d *pkgdef.Directory) ([]component, error) {
	var out []component
	for _, p := range d.Payloads {
		source, err := r.m.BuildContext.Resolve(p.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("render: %w", &pkgdef.MissingSourceError{Path: p.SourcePath, Cause: err})
		}
		filePath := append(append([]string(nil), path...), p.DestinationName)
		c := component{
			ID: id("cmp", filePath),
			File: &file{
				ID:      id("fil", filePath),
				Name:    p.DestinationName,
				Source:  string(source),
				KeyPath: "yes",
			},
		}
		out = append(out, c)
		r.refs = append(r.refs, componentRef{ID: c.ID})
	}
	for _, e := range d.Registry {
		c := component{
			ID: id("reg", append(append([]string(nil), path...), e.String())),
			Registry: &registryValue{
				Root:    e.Hive.Abbrev(),
				Key:     e.KeyPath,
				Name:    e.ValueName,
				Type:    "string",
				Value:   r.rewriteFileRefs(e.ValueData),
				KeyPath: "yes",
			},
		}
		out = append(out, c)
		r.refs = append(r.refs, componentRef{ID: c.ID})
	}
	return out, nil
}

func (r *renderer) isInstallDir(path []string) bool {
	if len(path) != len(r.m.InstallDir)+1 {
		return false
	}
	for i, s := range r.m.InstallDir {
		if !strings.EqualFold(path[i+1], s) {
			return false
		}
	}
	return true
}

// rewriteFileRefs turns [#name] and [!name] references to declared
// payloads into references to their generated file ids.
func (r *renderer) rewriteFileRefs(value string) string {
	refs, err := pkgdef.ScanFormatted(value)
	if err != nil || len(refs) == 0 {
		return value
	}

	var b strings.Builder
	last := 0
	for _, ref := range refs {
		kind := ref.Kind()
		if kind != '#' && kind != '!' {
			continue
		}
		fid, ok := r.fileIDs[strings.ToLower(ref.Target())]
		if !ok {
			continue
		}
		b.WriteString(value[last:ref.Start])
		b.WriteByte('[')
		b.WriteByte(kind)
		b.WriteString(fid)
		b.WriteByte(']')
		last = ref.End + 1
	}
	b.WriteString(value[last:])
	return b.String()
}

// id derives a stable WiX identifier from a tree path. Windows paths are
// case-insensitive, so paths differing only in case share an id. Identifiers
// are limited to 72 characters of [A-Za-z0-9_.], starting with a letter or
// underscore.
func id(prefix string, path []string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(path, `\`))))
	name := sanitize(strings.ToLower(path[len(path)-1]))
	const maxName = 72 - 3 - 1 - 1 - 12
	if len(name) > maxName {
		name = name[:maxName]
	}
	return prefix + "_" + name + "_" + hex.EncodeToString(sum[:6])
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
