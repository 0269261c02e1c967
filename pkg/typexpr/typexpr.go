// SPDX-License-Identifier: MPL-2.0

package typexpr

// Expr represents a parsed type expression. Use Parse or ParseUnified to
// create values. The concrete types are Primitive, Collection and Named;
// Named references are resolved later by the type registry.
type Expr interface {
	typeExpr()

	// String reconstructs the type-syntax source of the expression,
	// without any delimiter suffix.
	String() string
}

// PrimitiveKind identifies one of the five built-in primitive types.
type PrimitiveKind int

const (
	Int PrimitiveKind = iota // 4-byte signed integer
	Long                     // 8-byte signed integer
	String                   // length-prefixed UTF-8 string
	Bool                     // 1-byte boolean
	Float                    // 4-byte IEEE-754 float
)

// String returns the syntax name of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case Int:
		return "int"
	case Long:
		return "long"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// Primitive is one of the built-in leaf types.
type Primitive struct {
	Kind PrimitiveKind
}

func (Primitive) typeExpr() {}

func (p Primitive) String() string { return p.Kind.String() }

// CollectionKind identifies the collection wrapper form. All three kinds
// encode identically (element count followed by elements); the distinction
// only matters to code generators.
type CollectionKind string

const (
	List  CollectionKind = "list"
	Array CollectionKind = "array"
	Set   CollectionKind = "set"
)

// Collection is a homogeneous sequence of Elem values.
type Collection struct {
	Kind CollectionKind
	Elem Expr
}

func (Collection) typeExpr() {}

func (c Collection) String() string { return string(c.Kind) + "(" + c.Elem.String() + ")" }

// Named references a registry-defined type (struct or enum) by name.
type Named struct {
	Name string
}

func (Named) typeExpr() {}

func (n Named) String() string { return n.Name }

// primitiveNames maps syntax names to primitive kinds.
var primitiveNames = map[string]PrimitiveKind{
	"int":    Int,
	"long":   Long,
	"string": String,
	"bool":   Bool,
	"float":  Float,
}

// PrimitiveByName returns the primitive kind for a syntax name.
func PrimitiveByName(name string) (PrimitiveKind, bool) {
	k, ok := primitiveNames[name]
	return k, ok
}
