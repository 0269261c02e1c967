// SPDX-License-Identifier: MPL-2.0

package encoder

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"tablec/internal/model"
	"tablec/internal/registry"
)

func TestEncodeFlatTable(t *testing.T) {
	t.Parallel()

	table := &model.ConfigTable{
		SourceFile: "Settings.xlsx",
		BaseName:   "Settings",
		IsFlat:     true,
		TargetType: "GameSettings",
		Rows: []model.ConfigRow{
			{Key: "MaxPlayers", TypeSyntax: "int", Value: "64"},
			{Key: "ServerName", TypeSyntax: "string", Value: "alpha"},
			{Key: "HardMode", TypeSyntax: "bool", Value: "yes"},
		},
	}

	data, trace, err := EncodeTable(testRegistry(t), table)
	if err != nil {
		t.Fatalf("EncodeTable: %v", err)
	}

	want := le32(64)
	want = append(want, le32(5)...)
	want = append(want, []byte("alpha")...)
	want = append(want, 1)
	if !bytes.Equal(data, want) {
		t.Errorf("bytes = %v, want %v", data, want)
	}

	if !strings.Contains(trace, "[Flat Table] GameSettings") {
		t.Errorf("trace missing flat table header:\n%s", trace)
	}
	if !strings.Contains(trace, "Properties of GameSettings {") {
		t.Errorf("trace missing properties scope:\n%s", trace)
	}
}

func TestEncodeStandardTable(t *testing.T) {
	t.Parallel()

	table := &model.ConfigTable{
		SourceFile: "Items.xlsx",
		BaseName:   "Items",
		TargetType: "ItemsConfig",
		Rows: []model.ConfigRow{
			{Key: "Id", TypeSyntax: "int"},
			{Key: "Name", TypeSyntax: "string"},
		},
		DataRows: [][]any{
			{"1", "sword"},
			{"2", "axe"},
		},
	}

	data, trace, err := EncodeTable(testRegistry(t), table)
	if err != nil {
		t.Fatalf("EncodeTable: %v", err)
	}

	want := le32(2) // row count prefix
	want = append(want, le32(1)...)
	want = append(want, le32(5)...)
	want = append(want, []byte("sword")...)
	want = append(want, le32(2)...)
	want = append(want, le32(3)...)
	want = append(want, []byte("axe")...)
	if !bytes.Equal(data, want) {
		t.Errorf("bytes = %v, want %v", data, want)
	}

	for _, s := range []string{"[Standard Table] ItemsConfig", "Data Rows {", "Row [0] {", "Row [1] {"} {
		if !strings.Contains(trace, s) {
			t.Errorf("trace missing %q:\n%s", s, trace)
		}
	}
}

func TestEncodeStandardTableShortRow(t *testing.T) {
	t.Parallel()

	table := &model.ConfigTable{
		BaseName:   "Items",
		TargetType: "ItemsConfig",
		Rows: []model.ConfigRow{
			{Key: "Id", TypeSyntax: "int"},
			{Key: "Name", TypeSyntax: "string"},
		},
		DataRows: [][]any{{"1"}},
	}

	data, _, err := EncodeTable(testRegistry(t), table)
	if !errors.Is(err, model.ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}
	if data != nil {
		t.Error("failing table must not emit partial bytes")
	}
	if !strings.Contains(err.Error(), "Name") {
		t.Errorf("error should name the offending field: %v", err)
	}
}

func TestEncodeTableFailureNames(t *testing.T) {
	t.Parallel()

	table := &model.ConfigTable{
		BaseName:   "Broken",
		TargetType: "BrokenConfig",
		Rows:       []model.ConfigRow{{Key: "Hp", TypeSyntax: "int"}},
		DataRows:   [][]any{{"fine"}},
	}

	_, _, err := EncodeTable(testRegistry(t), table)
	if !errors.Is(err, ErrCoercion) {
		t.Fatalf("error = %v, want ErrCoercion", err)
	}
	for _, s := range []string{"Broken", "Hp", "row 0"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error should mention %q: %v", s, err)
		}
	}
}

func TestDefaultDelimiterSchema(t *testing.T) {
	t.Parallel()

	b := registry.NewBuilder(registry.BuilderConfig{Logger: log.New(io.Discard)})
	b.RegisterDelimiterSchema("list(int)", []string{";"})
	reg, err := b.Freeze()
	if err != nil {
		t.Fatal(err)
	}

	// The column's syntax has no suffix; the registered default applies.
	e := New(reg)
	if err := e.EncodeValue("7;8;9", "list(int)", "Levels"); err != nil {
		t.Fatal(err)
	}
	if want := le32(3, 7, 8, 9); !bytes.Equal(e.Bytes(), want) {
		t.Errorf("bytes = %v, want %v", e.Bytes(), want)
	}

	// An explicit suffix beats the default schema.
	e = New(reg)
	if err := e.EncodeValue("7|8", `list(int)["|"]`, "Levels"); err != nil {
		t.Fatal(err)
	}
	if want := le32(2, 7, 8); !bytes.Equal(e.Bytes(), want) {
		t.Errorf("bytes = %v, want %v", e.Bytes(), want)
	}
}
