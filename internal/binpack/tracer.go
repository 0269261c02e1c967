// SPDX-License-Identifier: MPL-2.0

package binpack

import (
	"fmt"
	"strings"
)

// traceValueLimit caps the rendered length of a traced value.
const traceValueLimit = 100

// Tracer records a side-by-side textual layout of every encoded field. The
// trace is purely diagnostic: it never affects the binary output and is
// never read back.
type Tracer struct {
	sb     strings.Builder
	indent int
}

// NewTracer returns an empty Tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Log records one encoded value as "[tag] name = value".
func (t *Tracer) Log(tag, name string, value any) {
	t.writeIndent()
	fmt.Fprintf(&t.sb, "[%s] %s = %s\n", tag, name, formatValue(value))
}

// EnterScope opens a named brace scope and increases the indent.
func (t *Tracer) EnterScope(name string) {
	t.writeIndent()
	t.sb.WriteString(name)
	t.sb.WriteString(" {\n")
	t.indent++
}

// ExitScope closes the current scope.
func (t *Tracer) ExitScope() {
	if t.indent > 0 {
		t.indent--
	}
	t.writeIndent()
	t.sb.WriteString("}\n")
}

// String returns the complete trace text.
func (t *Tracer) String() string { return t.sb.String() }

func (t *Tracer) writeIndent() {
	for i := 0; i < t.indent; i++ {
		t.sb.WriteString("  ")
	}
}

func formatValue(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		s = "<nil>"
	case string:
		s = fmt.Sprintf("%q", v)
	default:
		s = fmt.Sprintf("%v", v)
	}

	if runes := []rune(s); len(runes) > traceValueLimit {
		s = string(runes[:traceValueLimit]) + "..."
	}
	return s
}
