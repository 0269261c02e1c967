// SPDX-License-Identifier: MPL-2.0

package wizard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type (
	// fieldDoc is one FieldSequence entry as written to metadata JSON.
	fieldDoc struct {
		Field   string `json:"Field"`
		Type    string `json:"Type"`
		Comment string `json:"Comment,omitempty"`
	}

	// tableDoc is the document shape of a *.typedef.json file. It carries
	// the bookkeeping keys (ExcelFileName, Version) the compiler itself
	// ignores so that hand-edited files round-trip through the wizard.
	tableDoc struct {
		ExcelFileName    string     `json:"ExcelFileName,omitempty"`
		Version          string     `json:"Version,omitempty"`
		TargetType       string     `json:"TargetType"`
		IsFlatTable      bool       `json:"IsFlatTable,omitempty"`
		Comment          string     `json:"Comment,omitempty"`
		PrimaryKeyFields []string   `json:"PrimaryKeyFields,omitempty"`
		ImportTypes      []string   `json:"ImportTypes"`
		FieldSequence    []fieldDoc `json:"FieldSequence,omitempty"`
	}

	// typeDoc is one TypeDefines entry of a *.innertypesdef.json file.
	typeDoc struct {
		TargetType       string         `json:"TargetType"`
		Comment          string         `json:"Comment,omitempty"`
		TargetTypeAsEnum bool           `json:"TargetTypeAsEnum,omitempty"`
		EnumMembers      map[string]int `json:"EnumMembers,omitempty"`
		FieldSequence    []fieldDoc     `json:"FieldSequence,omitempty"`
	}

	// innerDoc is the document shape of a *.innertypesdef.json file.
	innerDoc struct {
		ImportTypes []string           `json:"ImportTypes"`
		TypeDefines map[string]typeDoc `json:"TypeDefines"`
	}
)

// addImports appends paths into imports, skipping duplicates and empties.
func addImports(imports []string, paths []string) []string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		seen := false
		for _, have := range imports {
			if have == p {
				seen = true
				break
			}
		}
		if !seen {
			imports = append(imports, p)
		}
	}
	return imports
}

// writeJSON writes v as indented JSON, creating parent directories as
// needed.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// parseEnumMembers parses "Prop=1,Equip=2" style member lists.
func parseEnumMembers(s string) (map[string]int, error) {
	members := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed enum member %q: want Name=Ordinal", pair)
		}
		var ordinal int
		if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &ordinal); err != nil {
			return nil, fmt.Errorf("malformed enum ordinal in %q: %w", pair, err)
		}
		members[name] = ordinal
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("no enum members given")
	}
	return members, nil
}

// splitNames splits a comma-separated name list, trimming blanks.
func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// collectionSyntax renders a collection type string, appending the JSON
// delimiter list when the collection parses from delimited cell text.
func collectionSyntax(kind, elem string, delims []string) string {
	syntax := kind + "(" + elem + ")"
	if len(delims) == 0 {
		return syntax
	}
	suffix, err := json.Marshal(delims)
	if err != nil {
		return syntax
	}
	return syntax + string(suffix)
}
