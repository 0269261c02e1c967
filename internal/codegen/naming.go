// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/iancoleman/strcase"

	"tablec/internal/registry"
)

// Pascal converts a name to PascalCase (max_hp -> MaxHp).
func Pascal(s string) string { return strcase.ToCamel(s) }

// Camel converts a name to camelCase (max_hp -> maxHp, MaxHp -> maxHp).
func Camel(s string) string { return strcase.ToLowerCamel(s) }

// Snake converts a name to snake_case (MaxHp -> max_hp).
func Snake(s string) string { return strcase.ToSnake(s) }

// ClassName derives the emitted type name from a definition's target path:
// the last path segment, PascalCased. "item/ItemReward" -> "ItemReward".
func ClassName(def registry.Definition) string {
	p := def.TargetPath()
	if p == "" {
		p = def.TypeName()
	}
	return Pascal(path.Base(p))
}

// SubPath returns the directory part of a definition's target path, or ""
// when the definition lives at the output root. Target paths always use
// forward slashes, they come from JSON metadata.
func SubPath(def registry.Definition) string {
	dir := path.Dir(def.TargetPath())
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// FileSet tracks emitted file names so shared types are generated once.
type FileSet map[string]struct{}

// Has reports whether name was already emitted.
func (s FileSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add records name as emitted.
func (s FileSet) Add(name string) { s[name] = struct{}{} }

// WriteFile writes content under root/sub/name, creating directories as
// needed.
func WriteFile(root, sub, name string, content []byte) error {
	dir := filepath.Join(root, filepath.FromSlash(sub))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
