// SPDX-License-Identifier: MPL-2.0

package golang

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
		EnumMembers:      map[string]int{"Common": 0, "Rare": 1, "Epic": 2},
	})
	b.Register("ItemReward", registry.RawTypeDef{
		TargetType: "common/ItemReward",
		FieldSequence: []registry.RawField{
			{Field: "ItemId", Type: "int"},
			{Field: "Quality", Type: "Quality"},
		},
	})
	b.Register("ItemsConfig", registry.RawTypeDef{
		TargetType: "ItemsConfig",
		FieldSequence: []registry.RawField{
			{Field: "Id", Type: "int"},
			{Field: "Name", Type: "string"},
			{Field: "Rewards", Type: `list(ItemReward)["~"]`},
			{Field: "Tags", Type: `set(string)["#"]`},
		},
	})

	r, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	return r
}

func newGenerator(t *testing.T, dir string) codegen.Generator {
	t.Helper()
	g, err := New(codegen.Options{
		Registry:  testRegistry(t),
		OutputDir: dir,
		Logger:    log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
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
	g := newGenerator(t, dir)

	table := &model.ConfigTable{
		SourceFile:  "Items.xlsx",
		BaseName:    "Items",
		TargetType:  "ItemsConfig",
		PrimaryKeys: []string{"Id"},
	}
	if err := g.GenerateAll([]*model.ConfigTable{table}); err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	structSrc := readOut(t, dir, "items_config.go")
	for _, want := range []string{
		"package tables",
		"type ItemsConfig struct {",
		"Id int32",
		"Name string",
		"Rewards []*ItemReward",
		"Tags map[string]struct{}",
		"func ReadItemsConfig(r *DataReader) *ItemsConfig {",
	} {
		if !strings.Contains(structSrc, want) {
			t.Errorf("items_config.go missing %q:\n%s", want, structSrc)
		}
	}

	depSrc := readOut(t, dir, "item_reward.go")
	if !strings.Contains(depSrc, "Quality Quality") {
		t.Errorf("dependency struct should hold enum by value:\n%s", depSrc)
	}
	if !strings.Contains(depSrc, "Quality(r.ReadInt32())") {
		t.Errorf("enum field should decode via ordinal cast:\n%s", depSrc)
	}

	enumSrc := readOut(t, dir, "quality.go")
	for _, want := range []string{
		"type Quality int32",
		"QualityCommon Quality = 0",
		"QualityEpic Quality = 2",
	} {
		if !strings.Contains(enumSrc, want) {
			t.Errorf("quality.go missing %q:\n%s", want, enumSrc)
		}
	}

	managerSrc := readOut(t, dir, "items_manager.go")
	for _, want := range []string{
		"type ItemsConfigManager struct {",
		"byKey map[int32]*ItemsConfig",
		"m.byKey[row.Id] = row",
		"func LoadItemsConfigManager(data []byte) *ItemsConfigManager {",
	} {
		if !strings.Contains(managerSrc, want) {
			t.Errorf("items_manager.go missing %q:\n%s", want, managerSrc)
		}
	}

	readerSrc := readOut(t, dir, "data_reader.go")
	if !strings.Contains(readerSrc, "binary.LittleEndian") {
		t.Errorf("data reader must be little-endian:\n%s", readerSrc)
	}
}

func TestGenerateFlatSingleton(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := newGenerator(t, dir)

	table := &model.ConfigTable{
		SourceFile: "Settings.xlsx",
		BaseName:   "Settings",
		TargetType: "GameSettings",
		IsFlat:     true,
		Rows: []model.ConfigRow{
			{Key: "MaxPlayers", TypeSyntax: "int", Comment: "lobby cap"},
			{Key: "MotD", TypeSyntax: "string"},
			{Key: "Rates", TypeSyntax: `list(float)["~"]`},
		},
	}
	if err := g.GenerateAll([]*model.ConfigTable{table}); err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	src := readOut(t, dir, "settings.go")
	for _, want := range []string{
		"type GameSettings struct {",
		"MaxPlayers int32",
		"// lobby cap",
		"Rates []float32",
		"func LoadGameSettings(data []byte) *GameSettings {",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("settings.go missing %q:\n%s", want, src)
		}
	}
}

func TestSharedTypeEmittedOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := newGenerator(t, dir)

	tables := []*model.ConfigTable{
		{BaseName: "A", TargetType: "GameA", IsFlat: true, Rows: []model.ConfigRow{
			{Key: "Reward", TypeSyntax: "ItemReward"},
		}},
		{BaseName: "B", TargetType: "GameB", IsFlat: true, Rows: []model.ConfigRow{
			{Key: "Rewards", TypeSyntax: `list(ItemReward)["~"]`},
		}},
	}
	if err := g.GenerateAll(tables); err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	// One shared reward file, referenced by both singletons.
	if _, err := os.Stat(filepath.Join(dir, "item_reward.go")); err != nil {
		t.Fatalf("shared dependency not emitted: %v", err)
	}
	aSrc := readOut(t, dir, "a.go")
	if !strings.Contains(aSrc, "Reward *ItemReward") {
		t.Errorf("custom type field should be a pointer:\n%s", aSrc)
	}
}

func TestGenerateCustomPackageName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, err := New(codegen.Options{
		Registry:  testRegistry(t),
		OutputDir: dir,
		Package:   "cfg",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	table := &model.ConfigTable{BaseName: "S", TargetType: "S", IsFlat: true}
	if err := g.GenerateAll([]*model.ConfigTable{table}); err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if src := readOut(t, dir, "data_reader.go"); !strings.Contains(src, "package cfg") {
		t.Errorf("package override ignored:\n%s", src)
	}
}
