// SPDX-License-Identifier: MPL-2.0

// Package typexpr models the unified type syntax used by configuration
// table metadata.
//
// A unified type syntax string is a type expression optionally suffixed
// with an explicit delimiter list, e.g. `list(Item)["~", "#"]`. The
// expression part is parsed once into an Expr tree; encoders and code
// generators dispatch on the tree instead of re-parsing strings.
package typexpr
