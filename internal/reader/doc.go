// SPDX-License-Identifier: MPL-2.0

// Package reader loads Excel workbooks and their typedef metadata into the
// language-neutral table model.
//
// A workbook is only read when a matching typedef file exists in the
// metadata directory; workbooks without one are reported and skipped. One
// broken workbook never aborts its siblings: per-table failures are
// collected and returned alongside the tables that did load.
package reader
