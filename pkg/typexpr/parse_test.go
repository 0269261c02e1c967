// SPDX-License-Identifier: MPL-2.0

package typexpr

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		syntax string
		want   Expr
	}{
		{"int", Primitive{Kind: Int}},
		{"long", Primitive{Kind: Long}},
		{"string", Primitive{Kind: String}},
		{"bool", Primitive{Kind: Bool}},
		{"float", Primitive{Kind: Float}},
		{"Item", Named{Name: "Item"}},
		{"list(int)", Collection{Kind: List, Elem: Primitive{Kind: Int}}},
		{"array(string)", Collection{Kind: Array, Elem: Primitive{Kind: String}}},
		{"set(Item)", Collection{Kind: Set, Elem: Named{Name: "Item"}}},
		{"list(list(int))", Collection{Kind: List, Elem: Collection{Kind: List, Elem: Primitive{Kind: Int}}}},
		{"  list( int )  ", Collection{Kind: List, Elem: Primitive{Kind: Int}}},
	}

	for _, tt := range tests {
		t.Run(tt.syntax, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.syntax)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.syntax, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.syntax, got, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Parse("   "); err == nil {
		t.Fatal("Parse of blank syntax should fail")
	}
}

func TestParseUnified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		syntax     string
		wantExpr   Expr
		wantDelims []string
	}{
		{`list(int)["~"]`, Collection{Kind: List, Elem: Primitive{Kind: Int}}, []string{"~"}},
		{`list(list(int))["~", "#"]`, Collection{Kind: List, Elem: Collection{Kind: List, Elem: Primitive{Kind: Int}}}, []string{"~", "#"}},
		{`ItemList["~"]`, Named{Name: "ItemList"}, []string{"~"}},
		{"int", Primitive{Kind: Int}, nil},
		{"list(int)", Collection{Kind: List, Elem: Primitive{Kind: Int}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.syntax, func(t *testing.T) {
			t.Parallel()
			expr, delims, err := ParseUnified(tt.syntax)
			if err != nil {
				t.Fatalf("ParseUnified(%q) returned error: %v", tt.syntax, err)
			}
			if !reflect.DeepEqual(expr, tt.wantExpr) {
				t.Errorf("expr = %#v, want %#v", expr, tt.wantExpr)
			}
			if !reflect.DeepEqual(delims, tt.wantDelims) {
				t.Errorf("delims = %#v, want %#v", delims, tt.wantDelims)
			}
		})
	}
}

func TestParseUnifiedMalformedSuffix(t *testing.T) {
	t.Parallel()

	tests := []string{
		`list(int)[~]`,
		`list(int)["~"`,  // unterminated suffix parses as a leaf name, not an error
		`list(int)[1, 2]`,
		`list(int)[{"a": 1}]`,
	}

	for _, syntax := range tests {
		t.Run(syntax, func(t *testing.T) {
			t.Parallel()
			_, _, err := ParseUnified(syntax)
			if syntax == `list(int)["~"` {
				// No closing bracket: the whole string is treated as a
				// leaf type name and resolution fails later instead.
				if err != nil {
					t.Fatalf("ParseUnified(%q) = %v, want nil", syntax, err)
				}
				return
			}
			if !errors.Is(err, ErrMalformedDelimiters) {
				t.Errorf("ParseUnified(%q) error = %v, want ErrMalformedDelimiters", syntax, err)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	t.Parallel()

	tests := []string{"int", "list(int)", "set(Item)", "list(list(string))", "Quality"}
	for _, syntax := range tests {
		t.Run(syntax, func(t *testing.T) {
			t.Parallel()
			expr, err := Parse(syntax)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", syntax, err)
			}
			if got := expr.String(); got != syntax {
				t.Errorf("String() = %q, want %q", got, syntax)
			}
		})
	}
}

func TestDelimitersPop(t *testing.T) {
	t.Parallel()

	q := NewDelimiters([]string{"~", "#"})

	head, rest := q.Pop()
	if head != "~" || rest.Len() != 1 {
		t.Fatalf("Pop() = %q, rest len %d; want %q, 1", head, rest.Len(), "~")
	}

	// The original queue must be unaffected by the pop.
	if q.Len() != 2 {
		t.Errorf("source queue length changed to %d after Pop", q.Len())
	}

	head, rest = rest.Pop()
	if head != "#" || !rest.Empty() {
		t.Fatalf("second Pop() = %q, rest empty %v; want %q, true", head, rest.Empty(), "#")
	}

	head, rest = rest.Pop()
	if head != "" || !rest.Empty() {
		t.Errorf("Pop on empty queue = %q, %v; want empty string and empty queue", head, rest)
	}
}

func TestDelimitersSiblingIndependence(t *testing.T) {
	t.Parallel()

	q := NewDelimiters([]string{"~", "#"})
	_, afterOuter := q.Pop()

	left := afterOuter
	right := afterOuter

	lHead, _ := left.Pop()
	rHead, _ := right.Pop()
	if lHead != "#" || rHead != "#" {
		t.Errorf("sibling branches observed different delimiters: %q vs %q", lHead, rHead)
	}
}

func TestNewDelimitersCopiesInput(t *testing.T) {
	t.Parallel()

	src := []string{"~", "#"}
	q := NewDelimiters(src)
	src[0] = "!"

	head, _ := q.Pop()
	if head != "~" {
		t.Errorf("queue observed caller mutation: got %q, want %q", head, "~")
	}
}
