// SPDX-License-Identifier: MPL-2.0

package reader

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"tablec/internal/model"
	"tablec/internal/registry"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func writeMeta(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestReader(t *testing.T, input, metadata string) (*Reader, *registry.Builder) {
	t.Helper()
	b := registry.NewBuilder(registry.BuilderConfig{Logger: log.New(io.Discard)})
	r := New(Config{
		InputDir:    input,
		MetadataDir: metadata,
		Logger:      log.New(io.Discard),
	}, b)
	return r, b
}

func TestReadFlatTable(t *testing.T) {
	t.Parallel()

	input, metadata := t.TempDir(), t.TempDir()
	writeWorkbook(t, filepath.Join(input, "Settings.xlsx"), [][]any{
		{"Key", "Type", "Value", "Comment"},
		{"MaxPlayers", "int", 64, "lobby cap"},
		{"ServerName", "string", "alpha", ""},
		{"", "int", 0, "skipped: no key"},
	})
	writeMeta(t, metadata, "Settings.typedef.json", `{
		"TargetType": "GameSettings",
		"IsFlatTable": true,
		"Comment": "Global settings."
	}`)

	r, _ := newTestReader(t, input, metadata)
	tables, failures, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}

	table := tables[0]
	if !table.IsFlat || table.TargetType != "GameSettings" {
		t.Errorf("table header = %+v", table)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (empty-key row skipped)", len(table.Rows))
	}
	if table.Rows[0].Key != "MaxPlayers" || table.Rows[0].Value != "64" {
		t.Errorf("row 0 = %+v; cell values should surface as strings", table.Rows[0])
	}
	if table.Rows[0].Comment != "lobby cap" {
		t.Errorf("row 0 comment = %q", table.Rows[0].Comment)
	}
}

func TestReadStandardTable(t *testing.T) {
	t.Parallel()

	input, metadata := t.TempDir(), t.TempDir()
	writeWorkbook(t, filepath.Join(input, "Items.xlsx"), [][]any{
		{"Item definitions"},
		{"Id", "Name", "Tags"},
		{1, "sword", "sharp~shiny"},
		{2, "axe", ""},
		{"", "", ""},
	})
	writeMeta(t, metadata, "Items.typedef.json", `{
		"TargetType": "ItemsConfig",
		"PrimaryKeyFields": ["Id"],
		"FieldSequence": [
			{"Field": "Id", "Type": "int"},
			{"Field": "Name", "Type": "string"},
			{"Field": "Tags", "Type": "list(string)[\"~\"]"}
		]
	}`)

	r, b := newTestReader(t, input, metadata)
	tables, failures, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}

	table := tables[0]
	if table.Comment != "Item definitions" {
		t.Errorf("comment = %q, want sheet cell A1", table.Comment)
	}
	if len(table.DataRows) != 2 {
		t.Fatalf("got %d data rows, want 2 (blank row skipped)", len(table.DataRows))
	}
	if table.DataRows[0][0] != "1" || table.DataRows[0][1] != "sword" || table.DataRows[0][2] != "sharp~shiny" {
		t.Errorf("data row 0 = %v", table.DataRows[0])
	}
	if len(table.PrimaryKeys) != 1 || table.PrimaryKeys[0] != "Id" {
		t.Errorf("primary keys = %v", table.PrimaryKeys)
	}

	// The standard table registers its own struct type.
	reg, err := b.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Struct("ItemsConfig"); !ok {
		t.Error("ItemsConfig not registered by table load")
	}
}

func TestReadStandardTableColumnOrderFollowsTypedef(t *testing.T) {
	t.Parallel()

	input, metadata := t.TempDir(), t.TempDir()
	// Sheet columns are reversed relative to the typedef field sequence.
	writeWorkbook(t, filepath.Join(input, "Items.xlsx"), [][]any{
		{"comment"},
		{"Name", "Id"},
		{"sword", 1},
	})
	writeMeta(t, metadata, "Items.typedef.json", `{
		"TargetType": "ItemsConfig",
		"FieldSequence": [
			{"Field": "Id", "Type": "int"},
			{"Field": "Name", "Type": "string"}
		]
	}`)

	r, _ := newTestReader(t, input, metadata)
	tables, failures, err := r.ReadAll()
	if err != nil || len(failures) != 0 || len(tables) != 1 {
		t.Fatalf("ReadAll: %v / %v / %d tables", err, failures, len(tables))
	}

	// Values must come back in field-sequence order, not sheet order.
	if row := tables[0].DataRows[0]; row[0] != "1" || row[1] != "sword" {
		t.Errorf("data row = %v, want [1 sword]", row)
	}
}

func TestReadStandardTableMissingColumn(t *testing.T) {
	t.Parallel()

	input, metadata := t.TempDir(), t.TempDir()
	writeWorkbook(t, filepath.Join(input, "Items.xlsx"), [][]any{
		{"comment"},
		{"Id"},
		{1},
	})
	writeMeta(t, metadata, "Items.typedef.json", `{
		"TargetType": "ItemsConfig",
		"FieldSequence": [
			{"Field": "Id", "Type": "int"},
			{"Field": "Name", "Type": "string"}
		]
	}`)

	r, _ := newTestReader(t, input, metadata)
	tables, failures, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("broken table should not load, got %d tables", len(tables))
	}
	if len(failures) != 1 || !errors.Is(failures[0], model.ErrSchemaMismatch) {
		t.Fatalf("failures = %v, want one ErrSchemaMismatch", failures)
	}
}

func TestWorkbookWithoutTypedefSkipped(t *testing.T) {
	t.Parallel()

	input, metadata := t.TempDir(), t.TempDir()
	writeWorkbook(t, filepath.Join(input, "Orphan.xlsx"), [][]any{{"Key", "Type", "Value"}})

	r, _ := newTestReader(t, input, metadata)
	tables, failures, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(tables) != 0 || len(failures) != 0 {
		t.Errorf("orphan workbook should be skipped silently: %d tables, %v", len(tables), failures)
	}
}

func TestBrokenTableDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	input, metadata := t.TempDir(), t.TempDir()
	writeWorkbook(t, filepath.Join(input, "Bad.xlsx"), [][]any{
		{"comment"},
		{"Id"},
	})
	writeMeta(t, metadata, "Bad.typedef.json", `{
		"TargetType": "BadConfig",
		"FieldSequence": [{"Field": "Missing", "Type": "int"}]
	}`)
	writeWorkbook(t, filepath.Join(input, "Good.xlsx"), [][]any{
		{"Key", "Type", "Value"},
		{"A", "int", 1},
	})
	writeMeta(t, metadata, "Good.typedef.json", `{
		"TargetType": "GoodConfig",
		"IsFlatTable": true
	}`)

	r, _ := newTestReader(t, input, metadata)
	tables, failures, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(tables) != 1 || tables[0].BaseName != "Good" {
		t.Errorf("sibling table should survive: %v", tables)
	}
	if len(failures) != 1 || failures[0].Table != "Bad" {
		t.Errorf("failures = %v", failures)
	}
}
