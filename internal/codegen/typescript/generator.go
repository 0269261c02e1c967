// SPDX-License-Identifier: MPL-2.0

// Package typescript emits TypeScript accessor sources: an interface plus
// decode function per struct, numeric enums, a manager class per standard
// table, a singleton loader per flat table, a DataReader over DataView, and
// an index.ts re-exporting the lot. Cross-file references use relative
// imports, so each emitted module tracks the custom types it touches.
package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"text/template"

	"tablec/internal/codegen"
	"tablec/internal/config"
	"tablec/internal/model"
	"tablec/internal/registry"
	"tablec/pkg/typexpr"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func init() {
	codegen.RegisterBackend(config.LanguageTypeScript, New)
}

type generator struct {
	opts    codegen.Options
	tmpl    *template.Template
	files   codegen.FileSet
	exports []string
}

// New builds the TypeScript backend.
func New(opts codegen.Options) (codegen.Generator, error) {
	tmpl, err := template.New("typescript").Funcs(template.FuncMap{
		"pascal": codegen.Pascal,
		"camel":  codegen.Camel,
		"snake":  codegen.Snake,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse typescript templates: %w", err)
	}
	return &generator{opts: opts, tmpl: tmpl, files: make(codegen.FileSet)}, nil
}

func (g *generator) Language() config.TargetLanguage { return config.LanguageTypeScript }

func (g *generator) GenerateAll(tables []*model.ConfigTable) error {
	if err := g.emitDataReader(); err != nil {
		return err
	}
	for _, table := range tables {
		var err error
		if table.IsFlat {
			err = g.generateFlatSingleton(table)
		} else {
			err = g.generateStandardTable(table)
		}
		if err != nil {
			return fmt.Errorf("typescript codegen for %s: %w", table.BaseName, err)
		}
	}
	return g.emitIndex()
}

// imports accumulates the per-file relative import lines, keyed by module
// so each file is imported once.
type imports map[string]map[string]struct{}

func (im imports) add(module, symbol string) {
	if im[module] == nil {
		im[module] = make(map[string]struct{})
	}
	im[module][symbol] = struct{}{}
}

// lines renders sorted import statements.
func (im imports) lines() []string {
	modules := make([]string, 0, len(im))
	for m := range im {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		symbols := make([]string, 0, len(im[m]))
		for s := range im[m] {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		line := "import { "
		for i, s := range symbols {
			if i > 0 {
				line += ", "
			}
			line += s
		}
		line += ` } from "./` + m + `";`
		out = append(out, line)
	}
	return out
}

// readInfo drives the recursive readValue template.
type readInfo struct {
	Var          string
	Depth        int
	IsCollection bool
	IsSet        bool
	Type         string
	Elem         *readInfo
	ReadExpr     string
}

type fieldData struct {
	Name    string
	Type    string
	Comment string
	Read    *readInfo
}

// tsType maps a type expression to its TypeScript declaration type.
func (g *generator) tsType(e typexpr.Expr) (string, error) {
	switch t := e.(type) {
	case typexpr.Primitive:
		switch t.Kind {
		case typexpr.Int, typexpr.Float:
			return "number", nil
		case typexpr.Long:
			return "bigint", nil
		case typexpr.Bool:
			return "boolean", nil
		case typexpr.String:
			return "string", nil
		}
		return "", fmt.Errorf("unhandled primitive %v", t.Kind)
	case typexpr.Collection:
		elem, err := g.tsType(t.Elem)
		if err != nil {
			return "", err
		}
		if t.Kind == typexpr.Set {
			return "Set<" + elem + ">", nil
		}
		return elem + "[]", nil
	case typexpr.Named:
		def, ok := g.opts.Registry.Definition(t.Name)
		if !ok {
			return "", fmt.Errorf("%w: %s", registry.ErrUnknownType, t.Name)
		}
		if _, isEnum := def.(*registry.EnumDef); isEnum {
			return codegen.ClassName(def), nil
		}
		return "I" + codegen.ClassName(def), nil
	default:
		return "", fmt.Errorf("unhandled type expression %T", e)
	}
}

func (g *generator) readInfoFor(e typexpr.Expr, varName string, depth int, im imports) (*readInfo, error) {
	declType, err := g.tsType(e)
	if err != nil {
		return nil, err
	}
	info := &readInfo{Var: varName, Depth: depth, Type: declType}

	switch t := e.(type) {
	case typexpr.Primitive:
		switch t.Kind {
		case typexpr.Int:
			info.ReadExpr = "r.readInt32()"
		case typexpr.Long:
			info.ReadExpr = "r.readInt64()"
		case typexpr.Float:
			info.ReadExpr = "r.readFloat32()"
		case typexpr.Bool:
			info.ReadExpr = "r.readBool()"
		case typexpr.String:
			info.ReadExpr = "r.readString()"
		}
	case typexpr.Collection:
		info.IsCollection = true
		info.IsSet = t.Kind == typexpr.Set
		elem, err := g.readInfoFor(t.Elem, varName+"e", depth+1, im)
		if err != nil {
			return nil, err
		}
		info.Elem = elem
	case typexpr.Named:
		def, ok := g.opts.Registry.Definition(t.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", registry.ErrUnknownType, t.Name)
		}
		name := codegen.ClassName(def)
		module := codegen.Snake(name)
		if _, isEnum := def.(*registry.EnumDef); isEnum {
			info.ReadExpr = "r.readInt32() as " + name
			im.add(module, name)
		} else {
			info.ReadExpr = "decode" + name + "(r)"
			im.add(module, "I"+name)
			im.add(module, "decode"+name)
		}
	}
	return info, nil
}

func (g *generator) render(name, fileName string, data any) error {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if g.opts.Logger != nil {
		g.opts.Logger.Debug("generated", "file", fileName)
	}
	return codegen.WriteFile(g.opts.OutputDir, "", fileName, buf.Bytes())
}

func (g *generator) emitDataReader() error {
	const fileName = "data_reader.ts"
	if g.files.Has(fileName) {
		return nil
	}
	g.files.Add(fileName)
	return g.render("data_reader.ts.tmpl", fileName, nil)
}

func (g *generator) emitDependencies(e typexpr.Expr) error {
	switch t := e.(type) {
	case typexpr.Collection:
		return g.emitDependencies(t.Elem)
	case typexpr.Named:
		def, ok := g.opts.Registry.Definition(t.Name)
		if !ok {
			return fmt.Errorf("%w: %s", registry.ErrUnknownType, t.Name)
		}
		return g.emitDefinition(def, "")
	default:
		return nil
	}
}

func (g *generator) emitDefinition(def registry.Definition, comment string) error {
	fileName := codegen.Snake(codegen.ClassName(def)) + ".ts"
	if g.files.Has(fileName) {
		return nil
	}
	g.files.Add(fileName)

	switch d := def.(type) {
	case *registry.EnumDef:
		return g.emitEnum(d, fileName, comment)
	case *registry.StructDef:
		for _, f := range d.Fields {
			if err := g.emitDependencies(f.Expr); err != nil {
				return err
			}
		}
		return g.emitInterface(d, fileName, comment)
	default:
		return fmt.Errorf("unhandled definition %T", def)
	}
}

func (g *generator) emitEnum(def *registry.EnumDef, fileName, comment string) error {
	if comment == "" {
		comment = def.Comment()
	}
	type member struct {
		Name  string
		Value int
	}
	members := make([]member, 0, len(def.Members))
	for _, m := range def.Members {
		members = append(members, member{Name: codegen.Pascal(m.Name), Value: m.Ordinal})
	}
	return g.render("enum.ts.tmpl", fileName, map[string]any{
		"Name":    codegen.ClassName(def),
		"Comment": comment,
		"Members": members,
	})
}

func (g *generator) emitInterface(def *registry.StructDef, fileName, comment string) error {
	if comment == "" {
		comment = def.Comment()
	}
	im := make(imports)
	im.add("data_reader", "DataReader")
	fields, err := g.fieldData(structFieldSpecs(def), im)
	if err != nil {
		return err
	}
	return g.render("interface.ts.tmpl", fileName, map[string]any{
		"Name":    codegen.ClassName(def),
		"Comment": comment,
		"Fields":  fields,
		"Imports": im.lines(),
	})
}

type fieldSpec struct {
	Name    string
	Expr    typexpr.Expr
	Comment string
}

func structFieldSpecs(def *registry.StructDef) []fieldSpec {
	specs := make([]fieldSpec, 0, len(def.Fields))
	for _, f := range def.Fields {
		specs = append(specs, fieldSpec{Name: f.Name, Expr: f.Expr, Comment: f.Doc})
	}
	return specs
}

func (g *generator) fieldData(specs []fieldSpec, im imports) ([]fieldData, error) {
	fields := make([]fieldData, 0, len(specs))
	for i, spec := range specs {
		declType, err := g.tsType(spec.Expr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		read, err := g.readInfoFor(spec.Expr, fmt.Sprintf("v%d", i), 0, im)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		fields = append(fields, fieldData{
			Name:    codegen.Camel(spec.Name),
			Type:    declType,
			Comment: spec.Comment,
			Read:    read,
		})
	}
	return fields, nil
}

func (g *generator) generateStandardTable(table *model.ConfigTable) error {
	def, ok := g.opts.Registry.Struct(table.TargetType)
	if !ok {
		return fmt.Errorf("%w: %s", registry.ErrUnknownType, table.TargetType)
	}
	if err := g.emitDefinition(def, table.Comment); err != nil {
		return err
	}

	className := codegen.ClassName(def)
	classModule := codegen.Snake(className)
	managerName := codegen.Pascal(table.BaseName) + "ConfigManager"
	managerModule := codegen.Snake(managerName)

	im := make(imports)
	im.add("data_reader", "DataReader")
	im.add(classModule, "I"+className)
	im.add(classModule, "decode"+className)

	keyType, keyExpr := "number", "i"
	switch len(table.PrimaryKeys) {
	case 0:
		// Keyed by row index when no primary key is declared.
	case 1:
		pk, err := g.primaryKeyType(def, table.PrimaryKeys[0])
		if err != nil {
			return err
		}
		keyType = pk
		keyExpr = "row." + codegen.Camel(table.PrimaryKeys[0])
	default:
		keyType = "string"
		keyExpr = "`"
		for i, pk := range table.PrimaryKeys {
			if i > 0 {
				keyExpr += "|"
			}
			keyExpr += "${row." + codegen.Camel(pk) + "}"
		}
		keyExpr += "`"
	}

	if err := g.render("manager.ts.tmpl", managerModule+".ts", map[string]any{
		"ManagerName": managerName,
		"DataClass":   className,
		"KeyType":     keyType,
		"KeyExpr":     keyExpr,
		"Imports":     im.lines(),
	}); err != nil {
		return err
	}

	g.exports = append(g.exports,
		`export type { I`+className+` } from "./`+classModule+`";`,
		`export { `+managerName+` } from "./`+managerModule+`";`,
	)
	return nil
}

func (g *generator) primaryKeyType(def *registry.StructDef, pk string) (string, error) {
	for _, f := range def.Fields {
		if f.Name == pk {
			return g.tsType(f.Expr)
		}
	}
	return "", fmt.Errorf("primary key %q not in %s field sequence", pk, def.Name)
}

func (g *generator) generateFlatSingleton(table *model.ConfigTable) error {
	im := make(imports)
	im.add("data_reader", "DataReader")
	specs := make([]fieldSpec, 0, len(table.Rows))
	for _, row := range table.Rows {
		expr, _, err := typexpr.ParseUnified(row.TypeSyntax)
		if err != nil {
			return fmt.Errorf("property %s: %w", row.Key, err)
		}
		if err := g.emitDependencies(expr); err != nil {
			return err
		}
		specs = append(specs, fieldSpec{Name: row.Key, Expr: expr, Comment: row.Comment})
	}
	fields, err := g.fieldData(specs, im)
	if err != nil {
		return err
	}

	className := codegen.Pascal(table.TargetType)
	module := codegen.Snake(className)
	if err := g.render("flat.ts.tmpl", module+".ts", map[string]any{
		"Name":    className,
		"Comment": table.Comment,
		"Source":  table.SourceFile,
		"Fields":  fields,
		"Imports": im.lines(),
	}); err != nil {
		return err
	}

	g.exports = append(g.exports, `export * from "./`+module+`";`)
	return nil
}

func (g *generator) emitIndex() error {
	lines := append([]string{}, g.exports...)
	lines = append(lines, `export * from "./data_reader";`)
	return g.render("index.ts.tmpl", "index.ts", map[string]any{
		"Lines": lines,
	})
}
