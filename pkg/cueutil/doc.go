// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE parsing flow used by definition
// files and the configuration file:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go struct
//
// # Usage
//
//	//go:embed pkgdef_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecodeString[Definition](
//	    schema,
//	    data,
//	    "#Definition",
//	    cueutil.WithFilename("winpkg.cue"),
//	)
//	if err != nil {
//	    return nil, err // error carries the JSON path of the bad field
//	}
//	return result.Value, nil
package cueutil
