// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	_ "embed"

	"github.com/winpkg/winpkg/pkg/cueutil"
)

//go:embed pkgdef_schema.cue
var definitionSchema string

// Schema returns the CUE schema definition files are checked against.
func Schema() string { return definitionSchema }

// parseCUE uses the 3-step CUE flow: compile schema, compile user data,
// validate and decode.
func parseCUE(data []byte, filename string) (*Definition, error) {
	result, err := cueutil.ParseAndDecodeString[Definition](
		definitionSchema,
		data,
		"#Definition",
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// FormatCUESource renders d as a winpkg.cue document.
func FormatCUESource(d *Definition) ([]byte, error) {
	return cueutil.Format(d)
}
