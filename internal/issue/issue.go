// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	WorkbookNotFoundId
	WorkbookLockedId
	TypedefNotFoundId
	TypedefParseErrorId
	UnknownTypeId
	RecursiveTypeId
	MalformedDelimitersId
	SchemaMismatchId
	CoercionFailedId
	GeneratorFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration failed to load!

Your config.toml could not be read or did not validate.

## Things you can try:
- Create a fresh starter config:
~~~
$ tablec init
~~~

- Check the [paths] section points at real directories
- Each [[targets]] entry needs a recognized language (go, csharp, typescript)
  and a non-empty output_dir`,
	}

	workbookNotFoundIssue = &Issue{
		id: WorkbookNotFoundId,
		mdMsg: `
# No workbooks found!

We searched the configured input directory but found no .xlsx files to compile.

## Things you can try:
- Check 'input_dir' in your config.toml
- Make sure the workbook files end in .xlsx
- Files starting with '~' are Excel lock files and are skipped on purpose`,
	}

	workbookLockedIssue = &Issue{
		id: WorkbookLockedId,
		mdMsg: `
# Workbook could not be opened!

The workbook exists but could not be read. This usually means it is open
in Excel, which holds an exclusive lock on Windows.

## Things you can try:
- Close the workbook in Excel and re-run the compile
- Check the file is a real .xlsx (not a renamed .xls or .csv)`,
	}

	typedefNotFoundIssue = &Issue{
		id: TypedefNotFoundId,
		mdMsg: `
# No typedef for this workbook!

Every compiled workbook needs a matching typedef file in the metadata
directory, e.g. Items.xlsx needs Items.typedef.json.

## Things you can try:
- Create one interactively:
~~~
$ tablec typedef
~~~

- Check 'metadata_dir' in your config.toml
- Workbooks without a typedef are skipped, not compiled`,
	}

	typedefParseErrorIssue = &Issue{
		id: TypedefParseErrorId,
		mdMsg: `
# Typedef file failed to parse!

The typedef JSON did not match the expected schema.

## Expected shape:
~~~json
{
  "TargetType": "ItemsConfig",
  "PrimaryKeyFields": ["Id"],
  "FieldSequence": [
    {"Field": "Id", "Type": "int"},
    {"Field": "Tags", "Type": "list(string)[\"~\"]"}
  ]
}
~~~

## Things you can try:
- Check quoting inside type suffixes: the delimiter list is a JSON array
- 'IsFlatTable' tables use Key/Type/Value columns and need no FieldSequence`,
	}

	unknownTypeIssue = &Issue{
		id: UnknownTypeId,
		mdMsg: `
# Unknown type referenced!

A field refers to a type name that is neither a primitive (int, long,
string, bool, float) nor a registered struct or enum.

## Things you can try:
- Check the spelling against your *.innertypesdef.json files
- Make sure the defining file is reachable via 'ImportTypes'
- Type names are case-sensitive`,
	}

	recursiveTypeIssue = &Issue{
		id: RecursiveTypeId,
		mdMsg: `
# Recursive type definition!

A struct directly contains a field of its own type (possibly through other
structs). Such a value would have no finite binary layout.

## Things you can try:
- Wrap the self-reference in a collection, e.g. 'list(Node)' instead of 'Node'
- Break the cycle with an id field and look the target up by key`,
	}

	malformedDelimitersIssue = &Issue{
		id: MalformedDelimitersId,
		mdMsg: `
# Malformed delimiter suffix!

The bracket suffix on a type expression must be a JSON array of strings,
one delimiter per nesting level.

## Examples:
~~~
list(int)["~"]
list(list(int))["~", "#"]
~~~

## Things you can try:
- Check the quotes: delimiters are JSON strings, so use double quotes
- Match the array length to the nesting depth of the collection`,
	}

	schemaMismatchIssue = &Issue{
		id: SchemaMismatchId,
		mdMsg: `
# Worksheet does not match its typedef!

A column named in the FieldSequence is missing from the sheet header row,
or a data row is shorter than the declared fields.

## Things you can try:
- Standard tables: row 1 is a comment, row 2 is the header, data starts at row 3
- Flat tables need Key, Type and Value columns (Comment is optional)
- Header names must match the typedef 'Field' names exactly`,
	}

	coercionFailedIssue = &Issue{
		id: CoercionFailedId,
		mdMsg: `
# Cell value could not be coerced!

A cell's content does not convert to the declared field type.

## Things you can try:
- Check for stray characters in numeric cells (units, thousands separators)
- Booleans accept true/false, 1/0, yes/no
- Enum cells take a member name or a raw ordinal`,
	}

	generatorFailedIssue = &Issue{
		id: GeneratorFailedId,
		mdMsg: `
# Code generation failed!

Compilation succeeded but a code-generation target failed to render
or write its sources.

## Things you can try:
- Check the target's 'output_dir' exists and is writable
- Re-run with --verbose to see the failing template`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		workbookNotFoundIssue.Id():    workbookNotFoundIssue,
		workbookLockedIssue.Id():      workbookLockedIssue,
		typedefNotFoundIssue.Id():     typedefNotFoundIssue,
		typedefParseErrorIssue.Id():   typedefParseErrorIssue,
		unknownTypeIssue.Id():         unknownTypeIssue,
		recursiveTypeIssue.Id():       recursiveTypeIssue,
		malformedDelimitersIssue.Id(): malformedDelimitersIssue,
		schemaMismatchIssue.Id():      schemaMismatchIssue,
		coercionFailedIssue.Id():      coercionFailedIssue,
		generatorFailedIssue.Id():     generatorFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
