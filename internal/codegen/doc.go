// SPDX-License-Identifier: MPL-2.0

// Package codegen defines the code-generation backend interface and the
// shared helpers the per-language emitters build on: naming conversions,
// target-path splitting, and once-per-file output tracking.
//
// Backends live in subpackages (golang, csharp, typescript) and register
// themselves at init time, the same way database/sql drivers do. Callers
// import the backends they want and obtain one via ForTarget.
package codegen
