// SPDX-License-Identifier: MPL-2.0

package encoder

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tablec/internal/binpack"
	"tablec/internal/registry"
	"tablec/pkg/typexpr"
)

// Encoder walks values against type expressions and emits wire-format bytes
// plus a layout trace. One Encoder serves one table; the registry it reads
// is immutable.
type Encoder struct {
	reg *registry.Registry
	w   *binpack.Writer
	tr  *binpack.Tracer
}

// New returns an Encoder writing into fresh buffers.
func New(reg *registry.Registry) *Encoder {
	return &Encoder{
		reg: reg,
		w:   binpack.NewWriter(),
		tr:  binpack.NewTracer(),
	}
}

// Bytes returns the accumulated binary output.
func (e *Encoder) Bytes() []byte { return e.w.Bytes() }

// Trace returns the accumulated layout trace text.
func (e *Encoder) Trace() string { return e.tr.String() }

// EncodeValue encodes one cell value against a unified type syntax string.
// fieldName is used for tracing and error paths only.
func (e *Encoder) EncodeValue(raw any, syntax, fieldName string) error {
	expr, explicit, err := typexpr.ParseUnified(syntax)
	if err != nil {
		return fmt.Errorf("%s: %w", fieldName, err)
	}

	queue := e.deriveDelimiters(syntax, explicit)
	value := normalize(raw, queue)

	if err := e.encode(value, expr, queue, fieldName); err != nil {
		return err
	}
	return nil
}

// deriveDelimiters prefers the syntax's explicit suffix; a column that omits
// one falls back to the registry's default schema for that exact syntax
// string.
func (e *Encoder) deriveDelimiters(syntax string, explicit []string) typexpr.Delimiters {
	if explicit != nil {
		return typexpr.NewDelimiters(explicit)
	}
	if defaults, ok := e.reg.DefaultDelimiters(strings.TrimSpace(syntax)); ok {
		return typexpr.NewDelimiters(defaults)
	}
	return typexpr.Delimiters{}
}

// normalize maps null and the empty string to absent and sniffs JSON-shaped
// strings when no delimiters apply. A delimited string stays a string; the
// recursion splits it one level at a time.
func normalize(raw any, queue typexpr.Delimiters) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		if !queue.Empty() {
			return v
		}
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var parsed any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				return parsed
			}
			// Keep the literal string; type coercion will surface the
			// problem as an encoding error instead of dropping the cell.
		}
		return v
	default:
		return raw
	}
}

func (e *Encoder) encode(value any, expr typexpr.Expr, queue typexpr.Delimiters, field string) error {
	switch t := expr.(type) {
	case typexpr.Collection:
		return e.encodeCollection(value, t, queue, field)
	case typexpr.Primitive:
		return e.encodePrimitive(value, t.Kind, field)
	case typexpr.Named:
		def, ok := e.reg.Definition(t.Name)
		if !ok {
			return fmt.Errorf("%s: %w: %q", field, registry.ErrUnknownType, t.Name)
		}
		switch d := def.(type) {
		case *registry.EnumDef:
			return e.encodeEnum(value, d, field)
		case *registry.StructDef:
			return e.encodeStruct(value, d, queue, field)
		}
	}
	return fmt.Errorf("%s: unhandled type expression %T", field, expr)
}

// encodeCollection writes the element count, then each element against the
// inner type. Each element receives its own copy of the post-pop queue;
// Delimiters is a value type, so passing it is already an independent
// snapshot.
func (e *Encoder) encodeCollection(value any, coll typexpr.Collection, queue typexpr.Delimiters, field string) error {
	var items []any
	switch v := value.(type) {
	case string:
		if !queue.Empty() {
			var delim string
			delim, queue = queue.Pop()
			if v != "" {
				parts := strings.Split(v, delim)
				items = make([]any, len(parts))
				for i, p := range parts {
					items[i] = p
				}
			}
		}
	case []any:
		items = v
	}

	e.w.Int32(int32(len(items)))
	e.tr.Log("int", field+"_count", len(items))
	e.tr.EnterScope(field + ": " + coll.String())
	for i, item := range items {
		name := "[" + strconv.Itoa(i) + "]"
		if err := e.encode(item, coll.Elem, queue, name); err != nil {
			return fmt.Errorf("%s%s: %w", field, name, err)
		}
	}
	e.tr.ExitScope()
	return nil
}

func (e *Encoder) encodePrimitive(value any, kind typexpr.PrimitiveKind, field string) error {
	switch kind {
	case typexpr.String:
		s := coerceString(value)
		e.w.String(s)
		e.tr.Log("string", field, s)
	case typexpr.Int:
		n, err := coerceInt64(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		e.w.Int32(int32(n))
		e.tr.Log("int", field, n)
	case typexpr.Long:
		n, err := coerceInt64(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		e.w.Int64(n)
		e.tr.Log("long", field, n)
	case typexpr.Float:
		f, err := coerceFloat64(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		e.w.Float32(float32(f))
		e.tr.Log("float", field, float32(f))
	case typexpr.Bool:
		b := coerceBool(value)
		e.w.Bool(b)
		e.tr.Log("bool", field, b)
	}
	return nil
}

// encodeEnum resolves a member name to its ordinal; numeric values pass
// through and anything unresolved encodes as ordinal 0.
func (e *Encoder) encodeEnum(value any, def *registry.EnumDef, field string) error {
	ordinal := 0
	switch v := value.(type) {
	case nil:
	case int:
		ordinal = v
	case int32:
		ordinal = int(v)
	case int64:
		ordinal = int(v)
	case float32:
		ordinal = int(v)
	case float64:
		ordinal = int(v)
	case string:
		if ord, ok := def.Ordinal(strings.TrimSpace(v)); ok {
			ordinal = ord
		}
	}
	e.w.Int32(int32(ordinal))
	e.tr.Log("enum("+def.Name+")", field, ordinal)
	return nil
}

func (e *Encoder) encodeStruct(value any, def *registry.StructDef, queue typexpr.Delimiters, field string) error {
	// Wrapper elision: a single-collection-field struct hands a delimited
	// string through untouched; the field's own collection handling pops
	// the delimiter.
	if def.IsWrapper {
		if s, ok := value.(string); ok && !queue.Empty() {
			e.tr.EnterScope(field + ": " + def.Name)
			err := e.encodeField(s, def.Fields[0], queue)
			e.tr.ExitScope()
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			return nil
		}
	}

	var parts []any
	switch v := value.(type) {
	case string:
		if !queue.Empty() && v != "" {
			var delim string
			delim, queue = queue.Pop()
			split := strings.Split(v, delim)
			parts = make([]any, len(split))
			for i, p := range split {
				parts[i] = p
			}
		}
	case []any:
		parts = v
	}

	e.tr.EnterScope(field + ": " + def.Name)
	for i, f := range def.Fields {
		// Extra parts are ignored; missing parts default.
		var fv any
		if i < len(parts) {
			fv = parts[i]
		}
		if err := e.encodeField(fv, f, queue); err != nil {
			e.tr.ExitScope()
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	e.tr.ExitScope()
	return nil
}

// encodeField encodes one struct field. The field sees a fresh copy of the
// caller's remaining queue unless its own syntax pins an explicit delimiter
// list or a default schema is registered for it.
func (e *Encoder) encodeField(value any, f registry.Field, inherited typexpr.Delimiters) error {
	queue := inherited
	if f.Delims != nil {
		queue = typexpr.NewDelimiters(f.Delims)
	} else if defaults, ok := e.reg.DefaultDelimiters(strings.TrimSpace(f.Syntax)); ok {
		queue = typexpr.NewDelimiters(defaults)
	}
	return e.encode(value, f.Expr, queue, f.Name)
}
