// SPDX-License-Identifier: MPL-2.0

// Package encoder turns configuration table values into the fixed
// little-endian wire format.
//
// The encoder is a purely functional transform over the frozen type
// registry: identical (value, schema) input produces byte-identical output.
// Raw cell values arrive as strings, pre-built lists or scalars; delimited
// strings are split lazily, one delimiter per nesting level, with every
// sibling branch receiving an independent copy of the remaining delimiter
// queue.
package encoder
