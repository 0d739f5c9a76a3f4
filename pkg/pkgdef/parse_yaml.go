// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func parseYAML(data []byte, filename string) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: definition is empty", filename)
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &def, nil
}
