// SPDX-License-Identifier: MPL-2.0

package typexpr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrMalformedDelimiters reports a bracketed delimiter suffix that is not a
// valid JSON array of strings.
var ErrMalformedDelimiters = fmt.Errorf("malformed delimiter suffix")

// ParseUnified splits a unified type syntax string into its type expression
// and its optional explicit delimiter list. A nil delimiter slice means the
// syntax carried no suffix (distinct from an empty list).
func ParseUnified(syntax string) (Expr, []string, error) {
	src := strings.TrimSpace(syntax)

	var delims []string
	if i := strings.Index(src, "["); i >= 0 && strings.HasSuffix(src, "]") {
		suffix := src[i:]
		if err := json.Unmarshal([]byte(suffix), &delims); err != nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrMalformedDelimiters, suffix)
		}
		src = strings.TrimSpace(src[:i])
	}

	expr, err := Parse(src)
	if err != nil {
		return nil, nil, err
	}
	return expr, delims, nil
}

// Parse parses a bare type expression (no delimiter suffix). Collection
// wrappers recurse into their element syntax; any other text is a leaf:
// either a primitive name or a Named reference for the registry to resolve.
func Parse(syntax string) (Expr, error) {
	src := strings.TrimSpace(syntax)
	if src == "" {
		return nil, fmt.Errorf("empty type syntax")
	}

	for _, kind := range []CollectionKind{List, Array, Set} {
		prefix := string(kind) + "("
		if strings.HasPrefix(src, prefix) && strings.HasSuffix(src, ")") {
			elem, err := Parse(src[len(prefix) : len(src)-1])
			if err != nil {
				return nil, fmt.Errorf("in %s(...): %w", kind, err)
			}
			return Collection{Kind: kind, Elem: elem}, nil
		}
	}

	if k, ok := PrimitiveByName(src); ok {
		return Primitive{Kind: k}, nil
	}
	return Named{Name: src}, nil
}
