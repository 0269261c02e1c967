// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The package consolidates the 3-step validation pattern used by the typedef
// metadata loaders:
//
//  1. Compile the embedded schema
//  2. Compile user data (JSON is a CUE subset) and unify with the schema
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed typedef_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[TypeDefFile](
//	    schemaBytes,
//	    fileBytes,
//	    "#TypeDefFile",
//	    cueutil.WithFilename("Items.typedef.json"),
//	)
//	if err != nil {
//	    return nil, err // error includes the CUE path of the bad value
//	}
//	return result.Value, nil
package cueutil
