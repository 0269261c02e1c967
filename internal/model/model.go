// SPDX-License-Identifier: MPL-2.0

// Package model holds the language-neutral intermediate representation of a
// configuration table. It is produced by the workbook reader and consumed,
// unmodified, by the binary encoder and the code generators.
package model

import "errors"

// ErrSchemaMismatch reports a declared field with no corresponding data at
// the row or column level.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ConfigRow is one property of a flat table, or one field definition of a
// standard table.
type ConfigRow struct {
	// Key is the property or field name.
	Key string

	// TypeSyntax is the full unified type syntax, e.g. `list(Item)["~"]`.
	TypeSyntax string

	// Value holds the property value. Flat tables only.
	Value any

	// Comment documents the field in generated code.
	Comment string
}

// ConfigTable represents everything read from a single workbook.
//
// A flat table models one singleton object as key/type/value rows. A
// standard table models repeated rows of one struct type: Rows holds the
// field definitions and DataRows the positional values, one slice per sheet
// row, parallel to Rows.
type ConfigTable struct {
	SourceFile  string
	BaseName    string
	IsFlat      bool
	TargetType  string
	Comment     string
	PrimaryKeys []string
	Rows        []ConfigRow
	DataRows    [][]any
}
