// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"github.com/winpkg/winpkg/pkg/fspath"
	"github.com/winpkg/winpkg/pkg/platform"
	"github.com/winpkg/winpkg/pkg/types"
)

// PayloadReference is a file copied into a directory at install time.
// SourcePath is kept exactly as declared; it is resolved against the
// BuildContext when checked or emitted.
type PayloadReference struct {
	SourcePath      types.FilesystemPath `json:"source"`
	DestinationName string               `json:"name"`
}

// NewPayloadReference creates a PayloadReference. An empty destinationName
// defaults to the base name of sourcePath.
func NewPayloadReference(sourcePath types.FilesystemPath, destinationName string) PayloadReference {
	if destinationName == "" {
		destinationName = fspath.Base(fspath.FromDefinition(string(sourcePath)))
	}
	return PayloadReference{SourcePath: sourcePath, DestinationName: destinationName}
}

// ValidateDestinationName checks that name can be created on the target system.
func ValidateDestinationName(name string) error {
	if err := platform.ValidateFilename(name); err != nil {
		return &InvalidDestinationError{Name: name, Cause: err}
	}
	return nil
}
