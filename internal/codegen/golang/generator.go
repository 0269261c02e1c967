// SPDX-License-Identifier: MPL-2.0

// Package golang emits Go accessor sources for compiled tables: one struct
// or enum per custom type, a manager per standard table, a singleton per
// flat table, and a shared binary reader helper. Everything lands in a
// single flat package so the generated code needs no imports of its own.
package golang

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"tablec/internal/codegen"
	"tablec/internal/config"
	"tablec/internal/model"
	"tablec/internal/registry"
	"tablec/pkg/typexpr"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultPackage is used when the target config names no package.
const DefaultPackage = "tables"

func init() {
	codegen.RegisterBackend(config.LanguageGo, New)
}

type generator struct {
	opts  codegen.Options
	tmpl  *template.Template
	files codegen.FileSet
}

// New builds the Go backend.
func New(opts codegen.Options) (codegen.Generator, error) {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	tmpl, err := template.New("golang").Funcs(template.FuncMap{
		"pascal": codegen.Pascal,
		"camel":  codegen.Camel,
		"snake":  codegen.Snake,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse go templates: %w", err)
	}
	return &generator{opts: opts, tmpl: tmpl, files: make(codegen.FileSet)}, nil
}

func (g *generator) Language() config.TargetLanguage { return config.LanguageGo }

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
			return fmt.Errorf("go codegen for %s: %w", table.BaseName, err)
		}
	}
	return nil
}

// readInfo drives the recursive readValue template. Var is the local
// variable the emitted statements leave the decoded value in.
type readInfo struct {
	Var          string
	Depth        int
	IsCollection bool
	IsSet        bool
	Type         string
	Elem         *readInfo
	ReadExpr     string
}

// fieldData is one struct field for the struct/flat templates.
type fieldData struct {
	Name    string
	JSONTag string
	Type    string
	Comment string
	Read    *readInfo
}

// goType maps a type expression to its Go declaration type.
func (g *generator) goType(e typexpr.Expr) (string, error) {
	switch t := e.(type) {
	case typexpr.Primitive:
		switch t.Kind {
		case typexpr.Int:
			return "int32", nil
		case typexpr.Long:
			return "int64", nil
		case typexpr.Float:
			return "float32", nil
		case typexpr.Bool:
			return "bool", nil
		case typexpr.String:
			return "string", nil
		}
		return "", fmt.Errorf("unhandled primitive %v", t.Kind)
	case typexpr.Collection:
		elem, err := g.goType(t.Elem)
		if err != nil {
			return "", err
		}
		if t.Kind == typexpr.Set {
			return "map[" + elem + "]struct{}", nil
		}
		return "[]" + elem, nil
	case typexpr.Named:
		def, ok := g.opts.Registry.Definition(t.Name)
		if !ok {
			return "", fmt.Errorf("%w: %s", registry.ErrUnknownType, t.Name)
		}
		name := codegen.ClassName(def)
		// Struct fields hold pointers to custom classes; enums stay values.
		if _, isStruct := def.(*registry.StructDef); isStruct {
			return "*" + name, nil
		}
		return name, nil
	default:
		return "", fmt.Errorf("unhandled type expression %T", e)
	}
}

// readInfoFor builds the decode plan for one type expression.
func (g *generator) readInfoFor(e typexpr.Expr, varName string, depth int) (*readInfo, error) {
	declType, err := g.goType(e)
	if err != nil {
		return nil, err
	}
	info := &readInfo{Var: varName, Depth: depth, Type: declType}

	switch t := e.(type) {
	case typexpr.Primitive:
		switch t.Kind {
		case typexpr.Int:
			info.ReadExpr = "r.ReadInt32()"
		case typexpr.Long:
			info.ReadExpr = "r.ReadInt64()"
		case typexpr.Float:
			info.ReadExpr = "r.ReadFloat32()"
		case typexpr.Bool:
			info.ReadExpr = "r.ReadBool()"
		case typexpr.String:
			info.ReadExpr = "r.ReadString()"
		}
	case typexpr.Collection:
		info.IsCollection = true
		info.IsSet = t.Kind == typexpr.Set
		elem, err := g.readInfoFor(t.Elem, varName+"e", depth+1)
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
		if _, isEnum := def.(*registry.EnumDef); isEnum {
			info.ReadExpr = name + "(r.ReadInt32())"
		} else {
			info.ReadExpr = "Read" + name + "(r)"
		}
	}
	return info, nil
}

// render executes a template and writes the result under the output root.
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
	const fileName = "data_reader.go"
	if g.files.Has(fileName) {
		return nil
	}
	g.files.Add(fileName)
	return g.render("data_reader.go.tmpl", fileName, map[string]string{
		"Package": g.opts.Package,
	})
}

// emitDependencies walks a type expression and emits every custom type it
// reaches, depth first.
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

// emitDefinition writes one struct or enum file unless already emitted,
// recursing into struct field types first.
func (g *generator) emitDefinition(def registry.Definition, comment string) error {
	fileName := codegen.Snake(codegen.ClassName(def)) + ".go"
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
		return g.emitStruct(d, fileName, comment)
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
	return g.render("enum.go.tmpl", fileName, map[string]any{
		"Package": g.opts.Package,
		"Name":    codegen.ClassName(def),
		"Comment": comment,
		"Members": members,
	})
}

func (g *generator) emitStruct(def *registry.StructDef, fileName, comment string) error {
	if comment == "" {
		comment = def.Comment()
	}
	fields, err := g.fieldData(structFieldSpecs(def))
	if err != nil {
		return err
	}
	return g.render("struct.go.tmpl", fileName, map[string]any{
		"Package": g.opts.Package,
		"Name":    codegen.ClassName(def),
		"Comment": comment,
		"Fields":  fields,
	})
}

// fieldSpec pairs a field name with its parsed type and doc comment.
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

func (g *generator) fieldData(specs []fieldSpec) ([]fieldData, error) {
	fields := make([]fieldData, 0, len(specs))
	for i, spec := range specs {
		declType, err := g.goType(spec.Expr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		read, err := g.readInfoFor(spec.Expr, fmt.Sprintf("v%d", i), 0)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		fields = append(fields, fieldData{
			Name:    codegen.Pascal(spec.Name),
			JSONTag: codegen.Camel(spec.Name),
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

	dataClass := codegen.ClassName(def)
	managerName := codegen.Pascal(table.BaseName) + "ConfigManager"

	keyType, keyExpr, needsFmt := "int", "i", false
	switch len(table.PrimaryKeys) {
	case 0:
		// Keyed by row index when no primary key is declared.
	case 1:
		pk, err := g.primaryKeyType(def, table.PrimaryKeys[0])
		if err != nil {
			return err
		}
		keyType = pk
		keyExpr = "row." + codegen.Pascal(table.PrimaryKeys[0])
	default:
		keyType = "string"
		needsFmt = true
		verbs, args := "", ""
		for i, pk := range table.PrimaryKeys {
			if i > 0 {
				verbs += "|"
				args += ", "
			}
			verbs += "%v"
			args += "row." + codegen.Pascal(pk)
		}
		keyExpr = fmt.Sprintf("fmt.Sprintf(%q, %s)", verbs, args)
	}

	fileName := codegen.Snake(table.BaseName) + "_manager.go"
	return g.render("manager.go.tmpl", fileName, map[string]any{
		"Package":     g.opts.Package,
		"ManagerName": managerName,
		"DataClass":   dataClass,
		"KeyType":     keyType,
		"KeyExpr":     keyExpr,
		"NeedsFmt":    needsFmt,
	})
}

// primaryKeyType resolves the Go type of a primary key field.
func (g *generator) primaryKeyType(def *registry.StructDef, pk string) (string, error) {
	for _, f := range def.Fields {
		if f.Name == pk {
			return g.goType(f.Expr)
		}
	}
	return "", fmt.Errorf("primary key %q not in %s field sequence", pk, def.Name)
}

func (g *generator) generateFlatSingleton(table *model.ConfigTable) error {
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
	fields, err := g.fieldData(specs)
	if err != nil {
		return err
	}
	fileName := codegen.Snake(table.BaseName) + ".go"
	return g.render("flat.go.tmpl", fileName, map[string]any{
		"Package": g.opts.Package,
		"Name":    codegen.Pascal(table.TargetType),
		"Comment": table.Comment,
		"Source":  table.SourceFile,
		"Fields":  fields,
	})
}
