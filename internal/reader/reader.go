// SPDX-License-Identifier: MPL-2.0

package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"tablec/internal/model"
	"tablec/internal/registry"
)

// DefaultTypeDefSuffix is the conventional table typedef file suffix.
const DefaultTypeDefSuffix = ".typedef.json"

// Config configures a Reader. Zero-value fields get defaults.
type Config struct {
	// InputDir holds the .xlsx workbooks.
	InputDir string

	// MetadataDir holds the typedef metadata files.
	MetadataDir string

	// TypeDefSuffix is the table typedef suffix.
	TypeDefSuffix string

	// Logger receives progress and skip notices.
	Logger *log.Logger
}

// TableError records one table that failed to load.
type TableError struct {
	Table string
	Err   error
}

func (e TableError) Error() string { return fmt.Sprintf("table %s: %v", e.Table, e.Err) }

func (e TableError) Unwrap() error { return e.Err }

// Reader turns workbooks plus metadata into ConfigTables, feeding type
// definitions into the registry builder as it goes.
type Reader struct {
	cfg     Config
	builder *registry.Builder
}

// New creates a Reader that registers loaded type metadata on b.
func New(cfg Config, b *registry.Builder) *Reader {
	if cfg.TypeDefSuffix == "" {
		cfg.TypeDefSuffix = DefaultTypeDefSuffix
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "reader"})
	}
	return &Reader{cfg: cfg, builder: b}
}

// ReadAll pre-scans the metadata directory for shared type definitions,
// then reads every workbook that has a typedef. The returned error reports
// environment problems only; per-table problems come back as TableErrors.
func (r *Reader) ReadAll() ([]*model.ConfigTable, []TableError, error) {
	if err := r.builder.ScanDir(r.cfg.MetadataDir); err != nil {
		return nil, nil, fmt.Errorf("scan metadata dir: %w", err)
	}

	entries, err := os.ReadDir(r.cfg.InputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("read input dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		// "~$" prefixed files are Excel lock files.
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		tables   []*model.ConfigTable
		failures []TableError
	)
	for _, name := range names {
		baseName := strings.TrimSuffix(name, ".xlsx")
		typedefPath := filepath.Join(r.cfg.MetadataDir, baseName+r.cfg.TypeDefSuffix)
		if _, err := os.Stat(typedefPath); err != nil {
			r.cfg.Logger.Info("no typedef for workbook; skipping", "workbook", name)
			continue
		}

		table, err := r.readWorkbook(name, baseName, typedefPath)
		if err != nil {
			failures = append(failures, TableError{Table: baseName, Err: err})
			continue
		}
		tables = append(tables, table)
	}
	return tables, failures, nil
}

func (r *Reader) readWorkbook(fileName, baseName, typedefPath string) (*model.ConfigTable, error) {
	def, err := r.builder.LoadTableDefFile(typedefPath, r.cfg.MetadataDir)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(filepath.Join(r.cfg.InputDir, fileName))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	table := &model.ConfigTable{
		SourceFile: fileName,
		BaseName:   baseName,
		IsFlat:     def.IsFlatTable,
		TargetType: def.TargetType,
		Comment:    tableComment(def, rows, fileName),
	}

	if table.IsFlat {
		err = parseFlatTable(rows, table)
	} else {
		table.PrimaryKeys = def.PrimaryKeyFields
		err = parseStandardTable(rows, def, table)
	}
	if err != nil {
		return nil, err
	}

	r.cfg.Logger.Debug("read table", "workbook", fileName, "flat", table.IsFlat, "rows", len(table.DataRows))
	return table, nil
}

// tableComment prefers the typedef's Comment, then the sheet's top-left
// cell, then a generated fallback.
func tableComment(def *registry.TableTypeDef, rows [][]string, fileName string) string {
	if def.Comment != "" {
		return def.Comment
	}
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] != "" {
		return rows[0][0]
	}
	return "Generated from " + fileName
}

// parseFlatTable reads key/type/value rows. The header row names the
// columns; Comment is optional.
func parseFlatTable(rows [][]string, table *model.ConfigTable) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: flat table %s has no header row", model.ErrSchemaMismatch, table.SourceFile)
	}

	keyIdx, typeIdx, valIdx, cmtIdx := -1, -1, -1, -1
	for i, h := range rows[0] {
		switch h {
		case "Key":
			keyIdx = i
		case "Type":
			typeIdx = i
		case "Value":
			valIdx = i
		case "Comment":
			cmtIdx = i
		}
	}
	if keyIdx < 0 || typeIdx < 0 || valIdx < 0 {
		return fmt.Errorf("%w: flat table %s needs 'Key', 'Type' and 'Value' columns",
			model.ErrSchemaMismatch, table.SourceFile)
	}

	for _, row := range rows[1:] {
		key := cell(row, keyIdx)
		if key == "" {
			continue
		}
		table.Rows = append(table.Rows, model.ConfigRow{
			Key:        key,
			TypeSyntax: cell(row, typeIdx),
			Value:      cell(row, valIdx),
			Comment:    cell(row, cmtIdx),
		})
	}
	return nil
}

// parseStandardTable maps sheet columns onto the typedef's field sequence.
// Row 1 is the comment row, row 2 the header, data starts at row 3.
func parseStandardTable(rows [][]string, def *registry.TableTypeDef, table *model.ConfigTable) error {
	for _, fd := range def.FieldSequence {
		if fd.Field == "" {
			continue
		}
		table.Rows = append(table.Rows, model.ConfigRow{
			Key:        fd.Field,
			TypeSyntax: fd.Type,
			Comment:    fd.Comment,
		})
	}

	if len(rows) < 2 {
		return fmt.Errorf("%w: standard table %s has no header row", model.ErrSchemaMismatch, table.SourceFile)
	}

	headers := make(map[string]int, len(rows[1]))
	for i, h := range rows[1] {
		if h != "" {
			headers[h] = i
		}
	}

	columns := make([]int, len(table.Rows))
	for i, field := range table.Rows {
		idx, ok := headers[field.Key]
		if !ok {
			return fmt.Errorf("%w: column %q declared in typedef is missing from %s",
				model.ErrSchemaMismatch, field.Key, table.SourceFile)
		}
		columns[i] = idx
	}

	for _, row := range rows[2:] {
		if rowEmpty(row) {
			continue
		}
		ordered := make([]any, len(columns))
		for i, idx := range columns {
			ordered[i] = cell(row, idx)
		}
		table.DataRows = append(table.DataRows, ordered)
	}
	return nil
}

// cell reads a column defensively: excelize trims trailing empty cells, so
// short rows are common.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
