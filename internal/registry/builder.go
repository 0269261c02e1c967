// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultInnerTypeDefSuffix is the conventional inner typedef file suffix.
const DefaultInnerTypeDefSuffix = ".innertypesdef.json"

// BuilderConfig configures a Builder. Zero-value fields are replaced with
// defaults by NewBuilder.
type BuilderConfig struct {
	// Logger receives load progress and duplicate-definition warnings.
	Logger *log.Logger

	// InnerTypeDefSuffix is the file suffix of importable typedef files.
	InnerTypeDefSuffix string
}

// Builder accumulates type definitions and delimiter schemas before the
// registry is frozen. It is not safe for concurrent use.
type Builder struct {
	logger *log.Logger
	suffix string

	loadedFiles map[string]struct{}
	defs        map[string]rawEntry
	schemas     map[string][]string
}

// rawEntry keeps a raw definition together with its source file for
// diagnostics.
type rawEntry struct {
	def    RawTypeDef
	source string
}

// NewBuilder creates an empty Builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "registry"})
	}
	if cfg.InnerTypeDefSuffix == "" {
		cfg.InnerTypeDefSuffix = DefaultInnerTypeDefSuffix
	}
	return &Builder{
		logger:      cfg.Logger,
		suffix:      cfg.InnerTypeDefSuffix,
		loadedFiles: make(map[string]struct{}),
		defs:        make(map[string]rawEntry),
		schemas:     make(map[string][]string),
	}
}

// LoadInnerFile loads one inner typedef file and, depth-first, everything it
// imports. Loading is idempotent per canonical (absolute) path, which both
// suppresses duplicate warnings and breaks import cycles.
func (b *Builder) LoadInnerFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve typedef path %q: %w", path, err)
	}
	if _, done := b.loadedFiles[abs]; done {
		return nil
	}
	b.loadedFiles[abs] = struct{}{}

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read typedef file: %w", err)
	}
	file, err := DecodeInnerTypeDefFile(data, filepath.Base(abs))
	if err != nil {
		return err
	}
	b.logger.Debug("loaded type definitions", "file", filepath.Base(abs), "types", len(file.TypeDefines))

	// Imports are relative to the importing file and resolve before the
	// local definitions register, so import graphs stay load-order stable.
	baseDir := filepath.Dir(abs)
	for _, imp := range file.ImportTypes {
		impPath := filepath.Join(baseDir, imp+b.suffix)
		if err := b.LoadInnerFile(impPath); err != nil {
			return fmt.Errorf("import %q from %s: %w", imp, filepath.Base(abs), err)
		}
	}

	for name, def := range file.TypeDefines {
		b.register(name, def, abs)
	}
	b.mergeSchemas(file.DelimiterSchemas)
	return nil
}

// ScanDir walks a metadata directory and loads every inner typedef file it
// finds. Files that fail to parse are reported and skipped so one bad file
// does not hide the rest of the metadata.
func (b *Builder) ScanDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), b.suffix) {
			return nil
		}
		if loadErr := b.LoadInnerFile(path); loadErr != nil {
			b.logger.Warn("skipping unparseable typedef file", "file", d.Name(), "err", loadErr)
		}
		return nil
	})
}

// LoadTableDefFile loads a table typedef file, pulls in its imports
// (relative to metadataDir) and, for standard tables, registers the table's
// own struct type. The decoded definition is returned for the reader.
func (b *Builder) LoadTableDefFile(path, metadataDir string) (*TableTypeDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table typedef: %w", err)
	}
	def, err := DecodeTableTypeDef(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	for _, imp := range def.ImportTypes {
		impPath := filepath.Join(metadataDir, imp+b.suffix)
		if err := b.LoadInnerFile(impPath); err != nil {
			return nil, fmt.Errorf("import %q from %s: %w", imp, filepath.Base(path), err)
		}
	}

	if !def.IsFlatTable {
		b.register(def.TargetType, RawTypeDef{
			TargetType:    def.TargetType,
			Comment:       def.Comment,
			FieldSequence: def.FieldSequence,
		}, path)
	}
	b.mergeSchemas(def.DelimiterSchemas)
	return def, nil
}

// Register adds a definition directly, bypassing file loading. Used by
// callers that synthesize definitions (and by tests).
func (b *Builder) Register(name string, def RawTypeDef) {
	b.register(name, def, "<direct>")
}

// DefinedTypes returns the names of every definition registered so far,
// sorted. Useful for presenting the known custom types before freezing.
func (b *Builder) DefinedTypes() []string {
	names := make([]string, 0, len(b.defs))
	for name := range b.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterDelimiterSchema adds a default delimiter schema for a literal
// type-syntax string.
func (b *Builder) RegisterDelimiterSchema(syntax string, delims []string) {
	b.mergeSchemas(map[string][]string{syntax: delims})
}

// register stores a raw definition. Later definitions of the same name win;
// the condition is tolerated but logged.
func (b *Builder) register(name string, def RawTypeDef, source string) {
	if prev, dup := b.defs[name]; dup {
		b.logger.Warn("type is defined more than once; keeping the later definition",
			"type", name,
			"previous", filepath.Base(prev.source),
			"current", filepath.Base(source))
	}
	b.defs[name] = rawEntry{def: def, source: source}
}

func (b *Builder) mergeSchemas(schemas map[string][]string) {
	for syntax, delims := range schemas {
		if _, dup := b.schemas[syntax]; dup {
			b.logger.Warn("delimiter schema is defined more than once; keeping the later definition",
				"syntax", syntax)
		}
		cp := make([]string, len(delims))
		copy(cp, delims)
		b.schemas[syntax] = cp
	}
}
