// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"sort"

	"tablec/pkg/typexpr"
)

// Freeze resolves every accumulated definition into its final form and
// returns the immutable Registry. Freezing fails when a field's type syntax
// is malformed, when a named reference has no definition, or when the struct
// field graph recurses unconditionally.
func (b *Builder) Freeze() (*Registry, error) {
	r := &Registry{
		defs:    make(map[string]Definition, len(b.defs)),
		schemas: make(map[string][]string, len(b.schemas)),
	}

	names := make([]string, 0, len(b.defs))
	for name := range b.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	r.names = names

	for _, name := range names {
		entry := b.defs[name]
		def, err := b.resolveEntry(name, entry)
		if err != nil {
			return nil, err
		}
		r.defs[name] = def
	}

	for syntax, delims := range b.schemas {
		r.schemas[syntax] = delims
	}

	if err := r.checkNamedRefs(); err != nil {
		return nil, err
	}
	r.markWrappers()
	if err := r.checkRecursion(); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *Builder) resolveEntry(name string, entry rawEntry) (Definition, error) {
	if entry.def.TargetTypeAsEnum {
		return newEnumDef(name, entry.def.TargetType, entry.def.Comment, entry.def.EnumMembers), nil
	}

	s := &StructDef{
		Name: name,
		Path: entry.def.TargetType,
		Doc:  entry.def.Comment,
	}
	for _, rf := range entry.def.FieldSequence {
		expr, delims, err := typexpr.ParseUnified(rf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", name, rf.Field, err)
		}
		s.Fields = append(s.Fields, Field{
			Name:   rf.Field,
			Syntax: rf.Type,
			Expr:   expr,
			Delims: delims,
			Doc:    rf.Comment,
		})
	}
	return s, nil
}

// checkNamedRefs verifies that every Named leaf inside every struct field
// resolves to a definition. Resolution failure is terminal, never a default.
func (r *Registry) checkNamedRefs() error {
	for _, name := range r.names {
		s, ok := r.defs[name].(*StructDef)
		if !ok {
			continue
		}
		for _, f := range s.Fields {
			if err := r.checkExprRefs(f.Expr); err != nil {
				return fmt.Errorf("field %s.%s: %w", name, f.Name, err)
			}
		}
	}
	return nil
}

func (r *Registry) checkExprRefs(expr typexpr.Expr) error {
	switch e := expr.(type) {
	case typexpr.Collection:
		return r.checkExprRefs(e.Elem)
	case typexpr.Named:
		if _, ok := r.defs[e.Name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownType, e.Name)
		}
	}
	return nil
}

// markWrappers computes the wrapper flag once so the encoder never inspects
// struct shape at run time.
func (r *Registry) markWrappers() {
	for _, def := range r.defs {
		s, ok := def.(*StructDef)
		if !ok {
			continue
		}
		if len(s.Fields) == 1 {
			_, isColl := s.Fields[0].Expr.(typexpr.Collection)
			s.IsWrapper = isColl
		}
	}
}

// checkRecursion rejects struct graphs that the encoder would walk without
// bound. Only direct struct-typed fields form unconditional edges: a
// self-reference behind a collection terminates on the count-0 base case.
func (r *Registry) checkRecursion() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.defs))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %q (via %v)", ErrRecursiveType, name, path)
		}
		state[name] = visiting

		if s, ok := r.defs[name].(*StructDef); ok {
			for _, f := range s.Fields {
				named, ok := f.Expr.(typexpr.Named)
				if !ok {
					continue
				}
				if _, isStruct := r.defs[named.Name].(*StructDef); !isStruct {
					continue
				}
				if err := visit(named.Name, append(path, name)); err != nil {
					return err
				}
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range r.names {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}
