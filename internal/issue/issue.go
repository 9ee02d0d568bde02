// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	IndexNotFoundId Id = iota + 1
	IndexParseErrorId
	InvalidFieldId
	UnsupportedRevisionId
	SourceNotRecognizedId
	SourceParseErrorId
	NoSourcesId
	FileExistsId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
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

// Render renders the issue as terminal markdown. stylePath is a glamour
// style name ("auto", "dark", "light", "notty") or a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	indexNotFoundIssue = &Issue{
		id: IndexNotFoundId,
		mdMsg: `
# No index file found!

There is no ` + "`.index`" + ` file in the current directory and no sources were given to build one.

## Things you can try:
- Build the index from a metadata directory:
~~~
$ index using meta/
~~~

- Start from a template and fill it out:
~~~
$ index generate indexfile
~~~

- List sources to merge by default in your config file:
~~~cue
default_sources: ["meta", "README.html"]
~~~`,
	}

	indexParseErrorIssue = &Issue{
		id: IndexParseErrorId,
		mdMsg: `
# Failed to read the index file!

The index file is not a YAML mapping of metadata fields.

## Things you can try:
- Check the error message above for the offending line
- Regenerate the index from its sources:
~~~
$ index --force
~~~`,
	}

	invalidFieldIssue = &Issue{
		id: InvalidFieldId,
		mdMsg: `
# Invalid metadata field!

A source contributed a value that does not fit its field.

## Common issues:
- ` + "`name`" + ` may only hold lower-case letters, digits, ` + "`-`" + ` and ` + "`_`" + `
- ` + "`version`" + ` must look like ` + "`1.2.3`" + ` or ` + "`1.2.3-beta`" + `
- ` + "`date`" + ` and ` + "`created`" + ` must be ` + "`YYYY-MM-DD`" + `
- Fields outside the schema must be listed in ` + "`customs`" + `

## Example:
~~~yaml
name: widget
version: 1.2.0
customs: [mascot]
mascot: otter
~~~`,
	}

	unsupportedRevisionIssue = &Issue{
		id: UnsupportedRevisionId,
		mdMsg: `
# Unsupported revision!

The document declares a ` + "`revision`" + ` this version of index does not know.

## Things you can try:
- Upgrade index to a release that supports the revision
- Remove the ` + "`revision`" + ` field to treat the document as revision 0`,
	}

	sourceNotRecognizedIssue = &Issue{
		id: SourceNotRecognizedId,
		mdMsg: `
# Source not recognized!

No importer understands the source you named.

## Recognized sources:
- **directories** holding one file per field (` + "`name`" + `, ` + "`requirements.yaml`" + `, ...)
- **documents**: ` + "`.index`, `.yaml`, `.yml`, `.json`, `.toml`, `.cue`" + `
- **web pages**: ` + "`.html`, `.htm`" + ` marked up with ` + "`iname`, `iversion`, ..." + ` classes
- **gemspecs**: ` + "`.gemspec`" + ` in YAML form`,
	}

	sourceParseErrorIssue = &Issue{
		id: SourceParseErrorId,
		mdMsg: `
# Failed to parse a source!

A source was recognized by its extension but its content could not be decoded.

## Things you can try:
- Check the file syntax against its format
- Run with ` + "`--debug`" + ` to see the full error chain`,
	}

	noSourcesIssue = &Issue{
		id: NoSourcesId,
		mdMsg: `
# Nothing to import!

The command needs at least one source.

## Example:
~~~
$ index using meta/ README.html
~~~`,
	}

	fileExistsIssue = &Issue{
		id: FileExistsId,
		mdMsg: `
# File already exists!

Generating would overwrite an existing file.

## Things you can try:
- Pass ` + "`--force`" + ` to overwrite it
- Pass ` + "`--stdout`" + ` to print instead of writing`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the dotindex configuration file.

## Configuration file locations:
- ./config.cue
- Linux: ~/.config/dotindex/config.cue
- macOS: ~/Library/Application Support/dotindex/config.cue
- Windows: %APPDATA%\dotindex\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ index config init
~~~

- Remove the config file to use defaults

## Example configuration:
~~~cue
index_file: ".index"
format: "yaml"
default_sources: ["meta"]

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to read a source or write the index file.

## Things you can try:
- Check file and directory permissions
- Run index from a directory you own`,
	}

	issues = map[Id]*Issue{
		indexNotFoundIssue.Id():       indexNotFoundIssue,
		indexParseErrorIssue.Id():     indexParseErrorIssue,
		invalidFieldIssue.Id():        invalidFieldIssue,
		unsupportedRevisionIssue.Id(): unsupportedRevisionIssue,
		sourceNotRecognizedIssue.Id(): sourceNotRecognizedIssue,
		sourceParseErrorIssue.Id():    sourceParseErrorIssue,
		noSourcesIssue.Id():           noSourcesIssue,
		fileExistsIssue.Id():          fileExistsIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
