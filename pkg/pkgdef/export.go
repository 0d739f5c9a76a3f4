// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Export returns the JSON view of a manifest or definition as generic
// maps and slices, the shape JSONPath queries run against.
func Export(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("exporting %T: %w", v, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("exporting %T: %w", v, err)
	}
	return doc, nil
}

// Query evaluates a JSONPath expression such as "$.identity.version"
// against the exported view of v.
func Query(v any, expr string) (any, error) {
	doc, err := Export(v)
	if err != nil {
		return nil, err
	}
	result, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}
	return result, nil
}
