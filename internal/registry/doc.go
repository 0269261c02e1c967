// SPDX-License-Identifier: MPL-2.0

// Package registry loads and indexes the named type definitions (structs and
// enums) and default delimiter schemas that drive binary encoding and code
// generation.
//
// The registry is built in two phases: a Builder loads typedef metadata
// files (depth-first over their imports, idempotent per file), then Freeze
// resolves every field's type syntax into a typexpr tree, verifies all named
// references, computes wrapper flags and rejects unconditionally recursive
// struct graphs. The frozen Registry is immutable and safe for concurrent
// reads.
package registry
