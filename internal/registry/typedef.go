// SPDX-License-Identifier: MPL-2.0

package registry

import (
	_ "embed"

	"tablec/pkg/cueutil"
)

//go:embed typedef_schema.cue
var typedefSchema []byte

type (
	// RawField is one field entry of a FieldSequence as authored in
	// typedef metadata.
	RawField struct {
		Field   string
		Type    string
		Comment string
	}

	// RawTypeDef is one entry of a TypeDefines block: an enum when
	// TargetTypeAsEnum is set, otherwise a struct.
	RawTypeDef struct {
		TargetType       string
		Comment          string
		TargetTypeAsEnum bool
		EnumMembers      map[string]int
		FieldSequence    []RawField
	}

	// InnerTypeDefFile is the decoded form of a *.innertypesdef.json
	// metadata file.
	InnerTypeDefFile struct {
		ImportTypes      []string
		TypeDefines      map[string]RawTypeDef
		DelimiterSchemas map[string][]string
	}

	// TableTypeDef is the decoded form of a *.typedef.json metadata
	// file describing a single configuration table.
	TableTypeDef struct {
		TargetType       string
		IsFlatTable      bool
		Comment          string
		PrimaryKeyFields []string
		FieldSequence    []RawField
		ImportTypes      []string
		DelimiterSchemas map[string][]string
	}
)

// DecodeInnerTypeDefFile validates raw JSON against the embedded CUE schema
// and decodes it.
func DecodeInnerTypeDefFile(data []byte, filename string) (*InnerTypeDefFile, error) {
	res, err := cueutil.ParseAndDecode[InnerTypeDefFile](typedefSchema, data, "#InnerTypeDefFile",
		cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// DecodeTableTypeDef validates raw JSON against the embedded CUE schema and
// decodes it.
func DecodeTableTypeDef(data []byte, filename string) (*TableTypeDef, error) {
	res, err := cueutil.ParseAndDecode[TableTypeDef](typedefSchema, data, "#TableTypeDef",
		cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}
