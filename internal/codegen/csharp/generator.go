// SPDX-License-Identifier: MPL-2.0

// Package csharp emits C# accessor sources: one class or enum per custom
// type with a static Decode method, a manager per standard table, a static
// singleton per flat table, and a DataReader helper that reads the tablec
// little-endian wire format. Everything shares a single namespace.
package csharp

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

// DefaultNamespace is used when the target config names no package.
const DefaultNamespace = "Tables"

func init() {
	codegen.RegisterBackend(config.LanguageCSharp, New)
}

type generator struct {
	opts  codegen.Options
	tmpl  *template.Template
	files codegen.FileSet
}

// New builds the C# backend.
func New(opts codegen.Options) (codegen.Generator, error) {
	if opts.Package == "" {
		opts.Package = DefaultNamespace
	}
	tmpl, err := template.New("csharp").Funcs(template.FuncMap{
		"pascal": codegen.Pascal,
		"camel":  codegen.Camel,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse csharp templates: %w", err)
	}
	return &generator{opts: opts, tmpl: tmpl, files: make(codegen.FileSet)}, nil
}

func (g *generator) Language() config.TargetLanguage { return config.LanguageCSharp }

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
			return fmt.Errorf("csharp codegen for %s: %w", table.BaseName, err)
		}
	}
	return nil
}

// readInfo drives the recursive readValue template.
type readInfo struct {
	Var          string
	Depth        int
	IsCollection bool
	Kind         typexpr.CollectionKind // list, array or set when IsCollection
	Type         string
	ElemType     string
	Elem         *readInfo
	ReadExpr     string
}

type fieldData struct {
	Name    string
	Type    string
	Comment string
	Read    *readInfo
}

// csType maps a type expression to its C# declaration type.
func (g *generator) csType(e typexpr.Expr) (string, error) {
	switch t := e.(type) {
	case typexpr.Primitive:
		switch t.Kind {
		case typexpr.Int:
			return "int", nil
		case typexpr.Long:
			return "long", nil
		case typexpr.Float:
			return "float", nil
		case typexpr.Bool:
			return "bool", nil
		case typexpr.String:
			return "string", nil
		}
		return "", fmt.Errorf("unhandled primitive %v", t.Kind)
	case typexpr.Collection:
		elem, err := g.csType(t.Elem)
		if err != nil {
			return "", err
		}
		switch t.Kind {
		case typexpr.Array:
			return elem + "[]", nil
		case typexpr.Set:
			return "System.Collections.Generic.HashSet<" + elem + ">", nil
		default:
			return "System.Collections.Generic.List<" + elem + ">", nil
		}
	case typexpr.Named:
		def, ok := g.opts.Registry.Definition(t.Name)
		if !ok {
			return "", fmt.Errorf("%w: %s", registry.ErrUnknownType, t.Name)
		}
		return codegen.ClassName(def), nil
	default:
		return "", fmt.Errorf("unhandled type expression %T", e)
	}
}

func (g *generator) readInfoFor(e typexpr.Expr, varName string, depth int) (*readInfo, error) {
	declType, err := g.csType(e)
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
			info.ReadExpr = "r.ReadSingle()"
		case typexpr.Bool:
			info.ReadExpr = "r.ReadBoolean()"
		case typexpr.String:
			info.ReadExpr = "r.ReadString()"
		}
	case typexpr.Collection:
		info.IsCollection = true
		info.Kind = t.Kind
		elemType, err := g.csType(t.Elem)
		if err != nil {
			return nil, err
		}
		info.ElemType = elemType
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
			info.ReadExpr = "(" + name + ")r.ReadInt32()"
		} else {
			info.ReadExpr = name + ".Decode(r)"
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
	const fileName = "DataReader.cs"
	if g.files.Has(fileName) {
		return nil
	}
	g.files.Add(fileName)
	return g.render("data_reader.cs.tmpl", fileName, map[string]string{
		"Namespace": g.opts.Package,
	})
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
	fileName := codegen.ClassName(def) + ".cs"
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
		return g.emitClass(d, fileName, comment)
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
	return g.render("enum.cs.tmpl", fileName, map[string]any{
		"Namespace": g.opts.Package,
		"Name":      codegen.ClassName(def),
		"Comment":   comment,
		"Members":   members,
	})
}

func (g *generator) emitClass(def *registry.StructDef, fileName, comment string) error {
	if comment == "" {
		comment = def.Comment()
	}
	fields, err := g.fieldData(structFieldSpecs(def))
	if err != nil {
		return err
	}
	return g.render("class.cs.tmpl", fileName, map[string]any{
		"Namespace": g.opts.Package,
		"Name":      codegen.ClassName(def),
		"Comment":   comment,
		"Fields":    fields,
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

func (g *generator) fieldData(specs []fieldSpec) ([]fieldData, error) {
	fields := make([]fieldData, 0, len(specs))
	for i, spec := range specs {
		declType, err := g.csType(spec.Expr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		read, err := g.readInfoFor(spec.Expr, fmt.Sprintf("v%d", i), 0)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		fields = append(fields, fieldData{
			Name:    codegen.Pascal(spec.Name),
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

	keyType, keyExpr := "int", "i"
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
		keyExpr = ""
		for i, pk := range table.PrimaryKeys {
			if i > 0 {
				keyExpr += ` + "|" + `
			}
			keyExpr += "row." + codegen.Pascal(pk) + ".ToString()"
		}
	}

	fileName := managerName + ".cs"
	return g.render("manager.cs.tmpl", fileName, map[string]any{
		"Namespace":   g.opts.Package,
		"ManagerName": managerName,
		"DataClass":   dataClass,
		"KeyType":     keyType,
		"KeyExpr":     keyExpr,
	})
}

func (g *generator) primaryKeyType(def *registry.StructDef, pk string) (string, error) {
	for _, f := range def.Fields {
		if f.Name == pk {
			return g.csType(f.Expr)
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
	className := codegen.Pascal(table.TargetType)
	return g.render("flat.cs.tmpl", className+".cs", map[string]any{
		"Namespace": g.opts.Package,
		"Name":      className,
		"Comment":   table.Comment,
		"Source":    table.SourceFile,
		"Fields":    fields,
	})
}
