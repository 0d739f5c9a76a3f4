// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"errors"
	"fmt"
	"strings"

	"github.com/winpkg/winpkg/pkg/platform"
	"github.com/winpkg/winpkg/pkg/types"
)

const (
	// DefaultScope is the install scope of a Builder that never calls WithScope.
	DefaultScope = ScopePerMachine
	// DefaultArchitecture is the architecture of a Builder that never calls WithArchitecture.
	DefaultArchitecture = ArchX64
)

// Builder assembles a Manifest step by step. Every method returns its own
// error and also records it, so Build reports all of them at once.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	ctx BuildContext

	identity      *ProductIdentity
	identityTried bool
	version       *Version
	scope         Scope
	arch          Architecture
	outputName    string
	root          *Directory
	installDir    []string
	installTried  bool

	errs []error
}

// NewBuilder returns a Builder resolving payload sources against ctx.
func NewBuilder(ctx BuildContext) *Builder {
	return &Builder{
		ctx:   ctx,
		scope: DefaultScope,
		arch:  DefaultArchitecture,
	}
}

func (b *Builder) record(err error) error {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return err
}

// WithIdentity sets the product identity. Every problem with the four
// fields is reported together.
func (b *Builder) WithIdentity(name, packageID, manufacturer string, version Version) error {
	b.identityTried = true
	id, errs := NewProductIdentity(name, packageID, manufacturer, version)
	if len(errs) > 0 {
		return b.record(errors.Join(errs...))
	}
	b.identity = &id
	return nil
}

// WithVersionString parses s and uses it as the product version,
// replacing the version given to WithIdentity.
func (b *Builder) WithVersionString(s string) error {
	v, err := ParseVersion(s)
	if err != nil {
		return b.record(err)
	}
	b.version = &v
	return nil
}

// WithScope sets the install scope.
func (b *Builder) WithScope(scope Scope) error {
	if ok, errs := scope.IsValid(); !ok {
		return b.record(errs[0])
	}
	b.scope = scope
	return nil
}

// WithArchitecture sets the target architecture.
func (b *Builder) WithArchitecture(arch Architecture) error {
	if ok, errs := arch.IsValid(); !ok {
		return b.record(errs[0])
	}
	b.arch = arch
	return nil
}

// WithOutputName sets the artifact name without extension. An empty
// name falls back to the product name at Build time.
func (b *Builder) WithOutputName(name string) error {
	name = strings.TrimSpace(name)
	if name != "" {
		if err := platform.ValidateFilename(name); err != nil {
			return b.record(&InvalidIdentityError{Field: "output name", Value: name, Reason: err.Error()})
		}
	}
	b.outputName = name
	return nil
}

// WithInstallDir sets the install tree root and the INSTALLDIR node from a
// path such as `%ProgramFiles%\Department of War\ClassificationBanner`.
// It must be called before payloads or registry entries are added.
func (b *Builder) WithInstallDir(path string) error {
	b.installTried = true
	if b.root != nil {
		return b.record(&InvalidInstallDirError{Path: path, Reason: "install directory is already set"})
	}
	folder, segments, err := SplitInstallPath(path)
	if err != nil {
		return b.record(err)
	}
	b.root = &Directory{Name: folder.Token()}
	b.root.ensure(segments)
	b.installDir = segments
	return nil
}

// AddPayload places a file in the install tree.
//
// directoryPath is relative to INSTALLDIR ("" is INSTALLDIR itself, `bin\tools`
// creates nested directories) or absolute when it starts with the root's
// %Token%. An empty destinationName defaults to the source's base name.
func (b *Builder) AddPayload(directoryPath, sourcePath, destinationName string) error {
	if b.root == nil {
		return b.missingInstallDir(fmt.Sprintf("payload %q", sourcePath))
	}

	segments, err := b.resolveDirectory(directoryPath)
	if err != nil {
		return b.record(err)
	}
	nodePath := append([]string{b.root.Name}, segments...)

	ref := NewPayloadReference(types.FilesystemPath(sourcePath), strings.TrimSpace(destinationName))
	var errs []error
	if _, err := b.ctx.CheckSource(ref.SourcePath); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateDestinationName(ref.DestinationName); err != nil {
		errs = append(errs, err)
	}
	if existing := b.root.Find(segments); existing != nil {
		if _, exists := existing.Payload(ref.DestinationName); exists {
			errs = append(errs, &DuplicateDestinationError{Directory: JoinPath(nodePath), Name: ref.DestinationName})
		}
	}
	if len(errs) > 0 {
		return b.record(errors.Join(errs...))
	}

	node := b.root.ensure(segments)
	node.Payloads = append(node.Payloads, ref)
	return nil
}

// AddRegistryEntry declares a registry string value owned by INSTALLDIR.
func (b *Builder) AddRegistryEntry(hive Hive, keyPath, valueName, valueData string, opts ...RegistryOption) error {
	if b.root == nil {
		return b.missingInstallDir(fmt.Sprintf("registry value %q", valueName))
	}

	entry := RegistryEntry{Hive: hive, KeyPath: keyPath, ValueName: valueName, ValueData: valueData}
	for _, opt := range opts {
		opt(&entry)
	}

	var errs []error
	if ok, herrs := hive.IsValid(); !ok {
		errs = append(errs, herrs...)
	}
	if err := ValidateKeyPath(keyPath); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateValueName(valueName); err != nil {
		errs = append(errs, err)
	}
	_ = b.root.Walk(func(_ []string, node *Directory) error {
		for _, existing := range node.Registry {
			if existing.sameValue(entry) {
				errs = append(errs, &DuplicateRegistryValueError{Hive: hive, KeyPath: keyPath, ValueName: valueName})
			}
		}
		return nil
	})
	if len(errs) > 0 {
		return b.record(errors.Join(errs...))
	}

	install := b.root.Find(b.installDir)
	install.Registry = append(install.Registry, entry)
	return nil
}

// Build returns the assembled manifest, or every error recorded so far
// joined together. The returned manifest is a deep copy; further Builder
// calls do not affect it.
func (b *Builder) Build() (*Manifest, error) {
	var missing []string
	if b.identity == nil && !b.identityTried {
		missing = append(missing, "identity")
	}
	if b.root == nil && !b.installTried {
		missing = append(missing, "install directory")
	}

	errs := append([]error(nil), b.errs...)
	if len(missing) > 0 {
		errs = append(errs, &IncompleteManifestError{Missing: missing})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	identity := *b.identity
	if b.version != nil {
		identity.Version = *b.version
	}
	outputName := b.outputName
	if outputName == "" {
		outputName = identity.Name
	}

	m := &Manifest{
		Identity:     identity,
		Scope:        b.scope,
		Architecture: b.arch,
		OutputName:   outputName,
		Root:         b.root,
		InstallDir:   b.installDir,
		BuildContext: b.ctx,
	}
	return m.Clone(), nil
}

// missingInstallDir reports an addition made before WithInstallDir. When
// WithInstallDir was called and failed, its error already covers this and
// nothing new is recorded.
func (b *Builder) missingInstallDir(what string) error {
	err := fmt.Errorf("%s: %w", what, &IncompleteManifestError{Missing: []string{"install directory"}})
	if b.installTried {
		return err
	}
	return b.record(err)
}

// resolveDirectory returns the segments of directoryPath below the root
// without touching the tree.
func (b *Builder) resolveDirectory(directoryPath string) ([]string, error) {
	directoryPath = strings.TrimSpace(directoryPath)

	var segments []string
	if strings.HasPrefix(directoryPath, "%") {
		folder, segs, err := SplitInstallPath(directoryPath)
		if err != nil {
			return nil, err
		}
		if folder.Token() != b.root.Name {
			return nil, &InvalidInstallDirError{Path: directoryPath, Reason: "payload directories must be under " + b.root.Name}
		}
		segments = segs
	} else {
		rel := splitSegments(directoryPath)
		for _, s := range rel {
			if s == "" || s == "." || s == ".." {
				return nil, &InvalidInstallDirError{Path: directoryPath, Reason: "must be a plain relative path below INSTALLDIR"}
			}
			if err := platform.ValidateFilename(s); err != nil {
				return nil, &InvalidInstallDirError{Path: directoryPath, Reason: err.Error()}
			}
		}
		segments = append(append([]string(nil), b.installDir...), rel...)
	}

	return segments, nil
}
