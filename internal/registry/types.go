// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"sort"

	"tablec/pkg/typexpr"
)

type (
	// Definition is a registry-defined type: either an EnumDef or a
	// StructDef.
	Definition interface {
		// TypeName is the name the type syntax refers to.
		TypeName() string

		// TargetPath is the code-generation path, e.g. "Common/Item".
		// The last path element is the generated type name; the
		// leading elements select the output subdirectory/package.
		TargetPath() string

		// Comment documents the type in generated code.
		Comment() string

		isDefinition()
	}

	// EnumMember is one named ordinal of an enum.
	EnumMember struct {
		Name    string
		Ordinal int
	}

	// EnumDef is an enum definition. Members are ordered by ordinal,
	// then name, for deterministic code generation; lookup is by name.
	EnumDef struct {
		Name    string
		Path    string
		Doc     string
		Members []EnumMember

		byName map[string]int
	}

	// Field is one field of a struct definition, with its type syntax
	// pre-resolved into an expression tree.
	Field struct {
		Name   string
		Syntax string
		Expr   typexpr.Expr

		// Delims is the field's explicit delimiter list, or nil when
		// the syntax carried no suffix.
		Delims []string

		Doc string
	}

	// StructDef is a struct definition. Field order is declaration
	// order and is the binary encoding order.
	StructDef struct {
		Name   string
		Path   string
		Doc    string
		Fields []Field

		// IsWrapper marks a struct with exactly one field whose type
		// is a collection; such structs pass delimited strings through
		// to the field untouched. Computed at freeze time.
		IsWrapper bool
	}
)

func (e *EnumDef) TypeName() string   { return e.Name }
func (e *EnumDef) TargetPath() string { return e.Path }
func (e *EnumDef) Comment() string    { return e.Doc }
func (e *EnumDef) isDefinition()      {}

// Ordinal resolves a member name to its ordinal.
func (e *EnumDef) Ordinal(name string) (int, bool) {
	ord, ok := e.byName[name]
	return ord, ok
}

func (s *StructDef) TypeName() string   { return s.Name }
func (s *StructDef) TargetPath() string { return s.Path }
func (s *StructDef) Comment() string    { return s.Doc }
func (s *StructDef) isDefinition()      {}

// newEnumDef builds an EnumDef from an unordered member map.
func newEnumDef(name, path, doc string, members map[string]int) *EnumDef {
	e := &EnumDef{
		Name:   name,
		Path:   path,
		Doc:    doc,
		byName: make(map[string]int, len(members)),
	}
	for n, ord := range members {
		e.Members = append(e.Members, EnumMember{Name: n, Ordinal: ord})
		e.byName[n] = ord
	}
	sort.Slice(e.Members, func(i, j int) bool {
		if e.Members[i].Ordinal != e.Members[j].Ordinal {
			return e.Members[i].Ordinal < e.Members[j].Ordinal
		}
		return e.Members[i].Name < e.Members[j].Name
	})
	return e
}
