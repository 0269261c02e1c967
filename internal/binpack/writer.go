// SPDX-License-Identifier: MPL-2.0

package binpack

import (
	"encoding/binary"
	"math"
)

// Writer accumulates wire-format bytes. The format is fixed little-endian
// with no padding and no per-field type tags; a reader must know the schema
// ahead of time.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bool writes a boolean as a single 0 or 1 byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// Int32 writes a 4-byte signed integer.
func (w *Writer) Int32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

// Int64 writes an 8-byte signed integer.
func (w *Writer) Int64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

// Float32 writes a 4-byte IEEE-754 float.
func (w *Writer) Float32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

// String writes the UTF-8 byte length as an Int32 followed by the raw
// bytes. A zero length writes no trailing bytes.
func (w *Writer) String(v string) {
	w.Int32(int32(len(v)))
	w.buf = append(w.buf, v...)
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the accumulated buffer. The slice is owned by the Writer;
// callers must not retain it across further writes.
func (w *Writer) Bytes() []byte { return w.buf }
