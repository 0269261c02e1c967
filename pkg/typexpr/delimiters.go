// SPDX-License-Identifier: MPL-2.0

package typexpr

// Delimiters is the ordered queue of split strings consumed one per nesting
// level when a flat delimited string is expanded into nested values.
//
// It is a value type with persistent-sequence semantics: Pop returns the
// remaining queue instead of mutating the receiver, so handing the queue to
// a sibling branch (another collection element, another struct field) is an
// ordinary assignment and can never observe a sibling's pops.
type Delimiters struct {
	items []string
}

// NewDelimiters builds a queue from an ordered delimiter list. The input
// slice is copied so later caller mutations cannot leak in.
func NewDelimiters(items []string) Delimiters {
	if len(items) == 0 {
		return Delimiters{}
	}
	cp := make([]string, len(items))
	copy(cp, items)
	return Delimiters{items: cp}
}

// Len reports how many delimiters remain.
func (d Delimiters) Len() int { return len(d.items) }

// Empty reports whether no delimiters remain.
func (d Delimiters) Empty() bool { return len(d.items) == 0 }

// Pop returns the front delimiter and the queue of remaining delimiters.
// Popping an empty queue returns "" and the empty queue.
func (d Delimiters) Pop() (string, Delimiters) {
	if len(d.items) == 0 {
		return "", d
	}
	return d.items[0], Delimiters{items: d.items[1:]}
}

// Items returns a copy of the remaining delimiters, front first.
func (d Delimiters) Items() []string {
	if len(d.items) == 0 {
		return nil
	}
	cp := make([]string, len(d.items))
	copy(cp, d.items)
	return cp
}
