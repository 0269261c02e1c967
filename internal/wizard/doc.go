// SPDX-License-Identifier: MPL-2.0

// Package wizard implements the interactive typedef authoring flow behind
// `tablec typedef`. It walks the user through describing a workbook's
// schema with huh forms and writes the resulting metadata as pretty JSON
// into the metadata directory.
package wizard
