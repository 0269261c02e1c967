// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"

	"tablec/pkg/typexpr"
)

var (
	// ErrUnknownType reports a type name with no loaded definition.
	ErrUnknownType = errors.New("unknown type")

	// ErrRecursiveType reports a struct definition whose field graph
	// loops back into itself without an intervening collection.
	ErrRecursiveType = errors.New("unconditionally recursive type")
)

// Registry is the frozen, read-only index of type definitions and default
// delimiter schemas. Build one with Builder.Freeze. A frozen Registry is
// safe for concurrent use.
type Registry struct {
	defs    map[string]Definition
	schemas map[string][]string
	names   []string
}

// Resolve maps a type name to an expression: a primitive marker for the
// five built-in names, a validated Named reference for loaded definitions,
// and ErrUnknownType otherwise. Collection syntax is not accepted here;
// callers run typexpr.Parse first.
func (r *Registry) Resolve(name string) (typexpr.Expr, error) {
	if k, ok := typexpr.PrimitiveByName(name); ok {
		return typexpr.Primitive{Kind: k}, nil
	}
	if _, ok := r.defs[name]; ok {
		return typexpr.Named{Name: name}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Definition returns the loaded definition for a name.
func (r *Registry) Definition(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Struct returns the struct definition for a name.
func (r *Registry) Struct(name string) (*StructDef, bool) {
	s, ok := r.defs[name].(*StructDef)
	return s, ok
}

// Enum returns the enum definition for a name.
func (r *Registry) Enum(name string) (*EnumDef, bool) {
	e, ok := r.defs[name].(*EnumDef)
	return e, ok
}

// DefaultDelimiters returns the fallback delimiter schema registered for a
// literal type-syntax string.
func (r *Registry) DefaultDelimiters(syntax string) ([]string, bool) {
	delims, ok := r.schemas[syntax]
	if !ok {
		return nil, false
	}
	cp := make([]string, len(delims))
	copy(cp, delims)
	return cp, true
}

// Names returns all defined type names in sorted order.
func (r *Registry) Names() []string {
	cp := make([]string, len(r.names))
	copy(cp, r.names)
	return cp
}
