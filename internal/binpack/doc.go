// SPDX-License-Identifier: MPL-2.0

// Package binpack contains the literal byte-packing routines for the fixed
// little-endian wire format, plus the layout tracer that mirrors every write
// into a human-readable debug artifact.
package binpack
