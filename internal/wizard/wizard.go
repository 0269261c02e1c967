// SPDX-License-Identifier: MPL-2.0

package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"tablec/internal/registry"
)

// newTypeChoice is the sentinel select entry that branches into inner type
// creation.
const newTypeChoice = "[create a new custom type]"

var (
	primitiveChoices  = []string{"int", "long", "string", "bool", "float"}
	collectionChoices = []string{"list", "array", "set"}
)

// Config configures a Wizard. Zero-value fields get defaults.
type Config struct {
	// InputDir holds the .xlsx workbooks.
	InputDir string

	// MetadataDir is where typedef metadata is read from and written to.
	MetadataDir string

	// TypeDefSuffix is the table typedef suffix.
	TypeDefSuffix string

	// InnerTypeDefSuffix is the shared typedef suffix.
	InnerTypeDefSuffix string

	// Logger receives progress notices.
	Logger *log.Logger
}

// Wizard drives the interactive typedef authoring session.
type Wizard struct {
	cfg   Config
	known []string
}

// New creates a Wizard.
func New(cfg Config) *Wizard {
	if cfg.TypeDefSuffix == "" {
		cfg.TypeDefSuffix = ".typedef.json"
	}
	if cfg.InnerTypeDefSuffix == "" {
		cfg.InnerTypeDefSuffix = registry.DefaultInnerTypeDefSuffix
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "wizard"})
	}
	return &Wizard{cfg: cfg}
}

// Run picks a workbook and either creates its typedef or walks the user
// through updating the existing one.
func (w *Wizard) Run(ctx context.Context) error {
	w.scanKnownTypes()

	workbooks, err := listWorkbooks(w.cfg.InputDir)
	if err != nil {
		return err
	}
	if len(workbooks) == 0 {
		w.cfg.Logger.Warn("no .xlsx workbooks found", "dir", w.cfg.InputDir)
		return nil
	}

	var file string
	if err := runField(ctx, huh.NewSelect[string]().
		Title("Pick a workbook to manage").
		Options(huh.NewOptions(workbooks...)...).
		Value(&file)); err != nil {
		return err
	}

	base := strings.TrimSuffix(file, ".xlsx")
	typedefPath := filepath.Join(w.cfg.MetadataDir, base+w.cfg.TypeDefSuffix)
	if _, err := os.Stat(typedefPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat typedef: %w", err)
		}
		w.cfg.Logger.Info("no typedef yet; creating one", "workbook", file)
		return w.createTypedef(ctx, typedefPath, base, file)
	}
	w.cfg.Logger.Info("typedef exists; checking for updates", "workbook", file)
	return w.updateTypedef(ctx, typedefPath, file)
}

// scanKnownTypes pre-loads the metadata directory so existing custom types
// appear as selectable field types.
func (w *Wizard) scanKnownTypes() {
	if _, err := os.Stat(w.cfg.MetadataDir); err != nil {
		return
	}
	b := registry.NewBuilder(registry.BuilderConfig{
		Logger:             w.cfg.Logger,
		InnerTypeDefSuffix: w.cfg.InnerTypeDefSuffix,
	})
	if err := b.ScanDir(w.cfg.MetadataDir); err != nil {
		w.cfg.Logger.Warn("could not scan metadata dir", "err", err)
		return
	}
	w.known = b.DefinedTypes()
}

func (w *Wizard) createTypedef(ctx context.Context, path, base, file string) error {
	name := base
	if err := runField(ctx, huh.NewInput().
		Title("Main type name").
		Validate(notEmpty).
		Value(&name)); err != nil {
		return err
	}

	comment := fmt.Sprintf("Represents a %s configuration.", name)
	if err := runField(ctx, huh.NewInput().
		Title(fmt.Sprintf("Description for %q", name)).
		Value(&comment)); err != nil {
		return err
	}

	var flat bool
	if err := runField(ctx, huh.NewConfirm().
		Title("Is this a flat key/value table?").
		Value(&flat)); err != nil {
		return err
	}

	doc := tableDoc{
		ExcelFileName: file,
		Version:       time.Now().Format("20060102_150405"),
		TargetType:    name,
		IsFlatTable:   flat,
		Comment:       comment,
		ImportTypes:   []string{},
	}

	if !flat {
		headers, headerComments, err := workbookColumns(filepath.Join(w.cfg.InputDir, file))
		if err != nil {
			return err
		}
		if len(headers) == 0 {
			return fmt.Errorf("workbook %s has no header columns", file)
		}

		keys := []string{headers[0]}
		if err := runField(ctx, huh.NewMultiSelect[string]().
			Title("Primary key fields").
			Options(huh.NewOptions(headers...)...).
			Value(&keys)); err != nil {
			return err
		}
		doc.PrimaryKeyFields = keys

		for _, h := range headers {
			field, imports, err := w.defineField(ctx, h, headerComments[h])
			if err != nil {
				return err
			}
			doc.FieldSequence = append(doc.FieldSequence, field)
			doc.ImportTypes = addImports(doc.ImportTypes, imports)
		}
	}

	if err := writeJSON(path, doc); err != nil {
		return err
	}
	w.cfg.Logger.Info("wrote typedef", "file", filepath.Base(path))
	return nil
}

func (w *Wizard) updateTypedef(ctx context.Context, path, file string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read typedef: %w", err)
	}
	var doc tableDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if doc.IsFlatTable {
		w.cfg.Logger.Info("flat table typedefs carry no field schema; nothing to update")
		return nil
	}

	headers, headerComments, err := workbookColumns(filepath.Join(w.cfg.InputDir, file))
	if err != nil {
		return err
	}

	if err := runField(ctx, huh.NewInput().
		Title("Main type description").
		Value(&doc.Comment)); err != nil {
		return err
	}

	defined := make(map[string]int, len(doc.FieldSequence))
	for i, f := range doc.FieldSequence {
		defined[f.Field] = i
	}
	inSheet := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		inSheet[h] = struct{}{}
	}

	var added, removed []string
	for _, h := range headers {
		if _, ok := defined[h]; !ok {
			added = append(added, h)
		}
	}
	for _, f := range doc.FieldSequence {
		if _, ok := inSheet[f.Field]; !ok {
			removed = append(removed, f.Field)
		}
	}

	for _, h := range added {
		w.cfg.Logger.Info("new column found in workbook", "column", h)
		field, imports, err := w.defineField(ctx, h, headerComments[h])
		if err != nil {
			return err
		}
		doc.FieldSequence = append(doc.FieldSequence, field)
		doc.ImportTypes = addImports(doc.ImportTypes, imports)
	}

	if len(removed) > 0 {
		drop := true
		if err := runField(ctx, huh.NewConfirm().
			Title(fmt.Sprintf("Columns gone from the workbook: %s. Remove them from the typedef?",
				strings.Join(removed, ", "))).
			Value(&drop)); err != nil {
			return err
		}
		if drop {
			kept := doc.FieldSequence[:0]
			gone := make(map[string]struct{}, len(removed))
			for _, name := range removed {
				gone[name] = struct{}{}
			}
			for _, f := range doc.FieldSequence {
				if _, dropIt := gone[f.Field]; !dropIt {
					kept = append(kept, f)
				}
			}
			doc.FieldSequence = kept
		}
	}

	if len(added) == 0 && len(removed) == 0 {
		w.cfg.Logger.Info("fields already in sync with the workbook")
	}

	if err := w.editFieldsLoop(ctx, &doc); err != nil {
		return err
	}

	if err := writeJSON(path, doc); err != nil {
		return err
	}
	w.cfg.Logger.Info("updated typedef", "file", filepath.Base(path))
	return nil
}

// editFieldsLoop offers to re-define existing fields one at a time until
// the user is done.
func (w *Wizard) editFieldsLoop(ctx context.Context, doc *tableDoc) error {
	edit := false
	if err := runField(ctx, huh.NewConfirm().
		Title("Edit the type or comment of an existing field?").
		Value(&edit)); err != nil {
		return err
	}
	for edit {
		const done = "[done]"
		choices := make([]string, 0, len(doc.FieldSequence)+1)
		for _, f := range doc.FieldSequence {
			choices = append(choices, f.Field)
		}
		choices = append(choices, done)

		var pick string
		if err := runField(ctx, huh.NewSelect[string]().
			Title("Which field?").
			Options(huh.NewOptions(choices...)...).
			Value(&pick)); err != nil {
			return err
		}
		if pick == done {
			return nil
		}

		for i, f := range doc.FieldSequence {
			if f.Field != pick {
				continue
			}
			field, imports, err := w.defineField(ctx, f.Field, f.Comment)
			if err != nil {
				return err
			}
			doc.FieldSequence[i] = field
			doc.ImportTypes = addImports(doc.ImportTypes, imports)
			break
		}
	}
	return nil
}

// defineField determines one field's type syntax and comment.
func (w *Wizard) defineField(ctx context.Context, name, defaultComment string) (fieldDoc, []string, error) {
	syntax, imports, err := w.selectType(ctx, name)
	if err != nil {
		return fieldDoc{}, nil, err
	}

	comment := defaultComment
	if err := runField(ctx, huh.NewInput().
		Title(fmt.Sprintf("Comment for field %q", name)).
		Value(&comment)); err != nil {
		return fieldDoc{}, nil, err
	}
	return fieldDoc{Field: name, Type: syntax, Comment: comment}, imports, nil
}

// selectType resolves a type string interactively, recursing into collection
// element types and inner type creation.
func (w *Wizard) selectType(ctx context.Context, prompt string) (string, []string, error) {
	choices := make([]string, 0, len(primitiveChoices)+len(collectionChoices)+len(w.known)+1)
	choices = append(choices, primitiveChoices...)
	choices = append(choices, collectionChoices...)
	choices = append(choices, w.known...)
	choices = append(choices, newTypeChoice)

	var selected string
	if err := runField(ctx, huh.NewSelect[string]().
		Title(fmt.Sprintf("Type of %q", prompt)).
		Options(huh.NewOptions(choices...)...).
		Value(&selected)); err != nil {
		return "", nil, err
	}

	for _, p := range primitiveChoices {
		if selected == p {
			return selected, nil, nil
		}
	}

	for _, c := range collectionChoices {
		if selected != c {
			continue
		}
		elem, imports, err := w.selectType(ctx, prompt+".Item")
		if err != nil {
			return "", nil, err
		}

		delimited := false
		if err := runField(ctx, huh.NewConfirm().
			Title(fmt.Sprintf("Does %s(%s) parse from a delimited cell string?", selected, elem)).
			Value(&delimited)); err != nil {
			return "", nil, err
		}
		var delims []string
		if delimited {
			raw := "~ #"
			if err := runField(ctx, huh.NewInput().
				Title("Delimiters for every nesting level, space separated").
				Value(&raw)); err != nil {
				return "", nil, err
			}
			delims = strings.Fields(raw)
		}
		return collectionSyntax(selected, elem, delims), imports, nil
	}

	if selected == newTypeChoice {
		name, relPath, err := w.createInnerType(ctx)
		if err != nil {
			return "", nil, err
		}
		if name == "" {
			// Creation was cancelled; fall back to the safest primitive.
			return "string", nil, nil
		}
		return name, []string{relPath}, nil
	}

	return selected, nil, nil
}

// createInnerType authors a shared struct or enum definition and saves it
// as its own inner typedef file. Returns the new type name and the import
// path other typedefs use to pull it in.
func (w *Wizard) createInnerType(ctx context.Context) (string, string, error) {
	var name string
	if err := runField(ctx, huh.NewInput().
		Title("Unique name for the new type (e.g. Item, Reward)").
		Validate(notEmpty).
		Value(&name)); err != nil {
		return "", "", err
	}

	targetPath := "Common/" + name
	if err := runField(ctx, huh.NewInput().
		Title("Target path in generated code (e.g. Common/Item)").
		Value(&targetPath)); err != nil {
		return "", "", err
	}

	comment := fmt.Sprintf("Represents a %s.", name)
	if err := runField(ctx, huh.NewInput().
		Title(fmt.Sprintf("Description for %q", name)).
		Value(&comment)); err != nil {
		return "", "", err
	}

	relPath := "InnerTypes/" + name
	if err := runField(ctx, huh.NewInput().
		Title("Save path relative to the metadata dir").
		Validate(notEmpty).
		Value(&relPath)); err != nil {
		return "", "", err
	}

	var isEnum bool
	if err := runField(ctx, huh.NewConfirm().
		Title(fmt.Sprintf("Is %q an enum?", name)).
		Value(&isEnum)); err != nil {
		return "", "", err
	}

	def := typeDoc{TargetType: targetPath, Comment: comment}
	doc := innerDoc{ImportTypes: []string{}, TypeDefines: map[string]typeDoc{}}

	if isEnum {
		def.TargetTypeAsEnum = true
		var raw string
		if err := runField(ctx, huh.NewInput().
			Title("Enum members (e.g. Prop=1,Equip=2)").
			Validate(func(s string) error {
				_, err := parseEnumMembers(s)
				return err
			}).
			Value(&raw)); err != nil {
			return "", "", err
		}
		members, err := parseEnumMembers(raw)
		if err != nil {
			return "", "", err
		}
		def.EnumMembers = members
	} else {
		var raw string
		if err := runField(ctx, huh.NewInput().
			Title("Field names, comma separated (e.g. ItemId,Count)").
			Validate(notEmpty).
			Value(&raw)); err != nil {
			return "", "", err
		}
		for _, fieldName := range splitNames(raw) {
			field, imports, err := w.defineField(ctx, fieldName,
				fmt.Sprintf("Property %s of %s", fieldName, name))
			if err != nil {
				return "", "", err
			}
			def.FieldSequence = append(def.FieldSequence, field)
			doc.ImportTypes = addImports(doc.ImportTypes, imports)
		}
	}
	doc.TypeDefines[name] = def

	path := filepath.Join(w.cfg.MetadataDir, relPath+w.cfg.InnerTypeDefSuffix)
	if _, err := os.Stat(path); err == nil {
		overwrite := false
		if err := runField(ctx, huh.NewConfirm().
			Title(fmt.Sprintf("%s already exists. Overwrite it?", filepath.Base(path))).
			Value(&overwrite)); err != nil {
			return "", "", err
		}
		if !overwrite {
			w.cfg.Logger.Info("kept the existing definition", "file", filepath.Base(path))
			return "", "", nil
		}
	}

	if err := writeJSON(path, doc); err != nil {
		return "", "", err
	}
	w.cfg.Logger.Info("wrote inner typedef", "file", filepath.Base(path), "type", name)

	w.known = append(w.known, name)
	sort.Strings(w.known)
	return name, relPath, nil
}

// runField runs a single prompt as its own form.
func runField(ctx context.Context, f huh.Field) error {
	return huh.NewForm(huh.NewGroup(f)).RunWithContext(ctx)
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

// listWorkbooks returns the .xlsx files in dir, skipping Excel lock files.
func listWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// workbookColumns reads the header row (row 2) of the first sheet, plus the
// per-column comments from row 1.
func workbookColumns(path string) ([]string, map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("workbook %s has no header row", filepath.Base(path))
	}

	var headers []string
	comments := make(map[string]string)
	for i, h := range rows[1] {
		if h == "" {
			continue
		}
		headers = append(headers, h)
		if i < len(rows[0]) {
			comments[h] = rows[0][i]
		}
	}
	return headers, comments, nil
}
