// SPDX-License-Identifier: MPL-2.0

package csharp

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"tablec/internal/codegen"
	"tablec/internal/model"
	"tablec/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	b := registry.NewBuilder(registry.BuilderConfig{Logger: log.New(io.Discard)})
	b.Register("Quality", registry.RawTypeDef{
		TargetType:       "common/Quality",
		TargetTypeAsEnum: true,
		EnumMembers:      map[string]int{"Common": 0, "Rare": 1},
	})
	b.Register("ItemsConfig", registry.RawTypeDef{
		TargetType: "ItemsConfig",
		FieldSequence: []registry.RawField{
			{Field: "Id", Type: "int"},
			{Field: "Quality", Type: "Quality"},
			{Field: "Tags", Type: `list(string)["~"]`},
			{Field: "Slots", Type: `array(int)["~"]`},
			{Field: "Flags", Type: `set(string)["~"]`},
		},
	})

	r, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	return r
}

func readOut(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestGenerateStandardTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, err := New(codegen.Options{Registry: testRegistry(t), OutputDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	table := &model.ConfigTable{
		SourceFile:  "Items.xlsx",
		BaseName:    "Items",
		TargetType:  "ItemsConfig",
		PrimaryKeys: []string{"Id"},
	}
	if err := g.GenerateAll([]*model.ConfigTable{table}); err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	classSrc := readOut(t, dir, "ItemsConfig.cs")
	for _, want := range []string{
		"namespace Tables",
		"public sealed class ItemsConfig",
		"public int Id { get; private set; }",
		"public Quality Quality { get; private set; }",
		"public System.Collections.Generic.List<string> Tags { get; private set; }",
		"public int[] Slots { get; private set; }",
		"public System.Collections.Generic.HashSet<string> Flags { get; private set; }",
		"public static ItemsConfig Decode(DataReader r)",
		"(Quality)r.ReadInt32()",
	} {
		if !strings.Contains(classSrc, want) {
			t.Errorf("ItemsConfig.cs missing %q:\n%s", want, classSrc)
		}
	}

	enumSrc := readOut(t, dir, "Quality.cs")
	if !strings.Contains(enumSrc, "public enum Quality") || !strings.Contains(enumSrc, "Rare = 1,") {
		t.Errorf("Quality.cs:\n%s", enumSrc)
	}

	managerSrc := readOut(t, dir, "ItemsConfigManager.cs")
	for _, want := range []string{
		"public sealed class ItemsConfigManager",
		"Dictionary<int, ItemsConfig>",
		"m._byKey[row.Id] = row;",
	} {
		if !strings.Contains(managerSrc, want) {
			t.Errorf("ItemsConfigManager.cs missing %q:\n%s", want, managerSrc)
		}
	}

	readerSrc := readOut(t, dir, "DataReader.cs")
	if !strings.Contains(readerSrc, "Encoding.UTF8.GetString") {
		t.Errorf("DataReader.cs:\n%s", readerSrc)
	}
}

func TestGenerateFlatSingleton(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, err := New(codegen.Options{Registry: testRegistry(t), OutputDir: dir, Package: "Game.Config"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	table := &model.ConfigTable{
		SourceFile: "Settings.xlsx",
		BaseName:   "Settings",
		TargetType: "GameSettings",
		IsFlat:     true,
		Rows: []model.ConfigRow{
			{Key: "MaxPlayers", TypeSyntax: "int"},
			{Key: "DropRate", TypeSyntax: "float"},
		},
	}
	if err := g.GenerateAll([]*model.ConfigTable{table}); err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	src := readOut(t, dir, "GameSettings.cs")
	for _, want := range []string{
		"namespace Game.Config",
		"public sealed class GameSettings",
		"public float DropRate { get; private set; }",
		"public static GameSettings Load(byte[] data)",
		"r.ReadSingle()",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("GameSettings.cs missing %q:\n%s", want, src)
		}
	}
}
