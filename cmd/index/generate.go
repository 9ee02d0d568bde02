// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dotindex/dotindex/internal/issue"
	"github.com/dotindex/dotindex/pkg/importer"
	"github.com/dotindex/dotindex/pkg/metadata"
	"github.com/dotindex/dotindex/pkg/valid"
)

// gemspecPattern locates a gemspec whose values seed generated files.
const gemspecPattern = "{*.gemspec,pkg/*.gemspec}"

var (
	//go:embed templates/*.tmpl
	templateFS embed.FS

	errUnknownFileType = errors.New("unknown file type")

	fileTypes = map[string]fileType{
		"indexfile": {
			template:      "indexfile.tmpl",
			importGemspec: true,
			defaultFile:   func(*metadata.Document) (string, error) { return "Indexfile.yml", nil },
		},
		"gemspec": {
			template: "gemspec.tmpl",
			defaultFile: func(d *metadata.Document) (string, error) {
				if d == nil || d.Name() == "" {
					return "", valid.Invalid("name", nil, "is required to name the gemspec; pass a file name")
				}
				return d.Name() + ".gemspec", nil
			},
		},
	}

	fileTypeAliases = map[string]string{
		"yaml":     "indexfile",
		"metadata": "indexfile",
	}

	templateFuncs = template.FuncMap{
		"yaml":        yamlScalar,
		"ruby":        rubyString,
		"requirement": requirementString,
	}
)

type (
	fileType struct {
		template      string
		importGemspec bool
		defaultFile   func(*metadata.Document) (string, error)
	}

	// generateData is the template context: the document form plus the
	// names of the generated file and the index it came from.
	generateData struct {
		metadata.Form
		File  string
		Index string
	}
)

func newGenerateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <indexfile|gemspec> [file]",
		Short: "Generate a file from the index",
		Long: `Generate a file from the index document. Fields the document lacks are
written as <fill-out FIELD> placeholders.

  indexfile   a YAML source document (default Indexfile.yml) to edit and
              merge with 'index using'
  gemspec     a Ruby gemspec (default <name>.gemspec)

Existing files are kept unless --force is given; --stdout prints instead.`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"indexfile", "gemspec"},
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) > 1 {
				file = args[1]
			}
			return app.generate(cmd.Context(), args[0], file)
		},
	}
}

func (a *App) generate(ctx context.Context, kind, file string) error {
	name := strings.ToLower(kind)
	if target, ok := fileTypeAliases[name]; ok {
		name = target
	}
	ft, ok := fileTypes[name]
	if !ok {
		return a.fail(fmt.Errorf("%w: %s", errUnknownFileType, kind), "generate", kind)
	}

	doc, err := a.generationDocument(ctx, ft.importGemspec)
	if err != nil {
		return err
	}

	if file == "" {
		if file, err = ft.defaultFile(doc); err != nil {
			return a.fail(err, "generate "+name, "")
		}
	}
	if !a.opts.Stdout && !a.opts.Force {
		if _, statErr := os.Stat(file); statErr == nil {
			return a.failAs(issue.FileExistsId, fmt.Errorf("%s: %w", file, fs.ErrExist), "generate "+name, file)
		}
	}

	out, err := renderTemplate(ft.template, generateData{
		Form:  metadata.NewForm(doc),
		File:  file,
		Index: a.opts.IndexFile,
	})
	if err != nil {
		return a.fail(err, "render "+name, ft.template)
	}

	if a.opts.Stdout {
		return a.write(out)
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return a.fail(err, "generate "+name, file)
		}
	}
	if err := os.WriteFile(file, out, 0o644); err != nil {
		return a.fail(err, "generate "+name, file)
	}

	absPath, _ := filepath.Abs(file)
	fmt.Fprintf(a.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	return nil
}

// generationDocument returns the index document as it stands, or nil when
// there is none. With withGemspec the first gemspec found is merged over it.
func (a *App) generationDocument(ctx context.Context, withGemspec bool) (*metadata.Document, error) {
	path := a.opts.IndexFile
	var doc *metadata.Document
	if importer.Exists(path) {
		d, err := importer.Open(path)
		if err != nil {
			return nil, a.failAs(issue.IndexParseErrorId, err, "open index", path)
		}
		doc = d
	}
	if !withGemspec {
		return doc, nil
	}

	matches, err := doublestar.Glob(os.DirFS("."), gemspecPattern)
	if err != nil || len(matches) == 0 {
		return doc, nil
	}
	slices.Sort(matches)
	a.logger.Info("importing gemspec", "path", matches[0])

	var sources []importer.Source
	if doc != nil {
		sources = append(sources, importer.DataSource(path, doc.Canonical()))
	}
	sources = append(sources, importer.PathSource(matches[0]))
	merged, err := a.Importer.Merge(ctx, sources...)
	if err != nil {
		// Ruby gemspecs are not readable; only YAML ones seed the document.
		a.logger.Warn("gemspec not imported", "path", matches[0], "error", err)
		return doc, nil
	}
	return merged, nil
}

func renderTemplate(name string, data generateData) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// yamlScalar renders v as a YAML value for a template line.
func yamlScalar(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// rubyString renders v as a double-quoted Ruby string literal.
func rubyString(v any) string {
	return strings.ReplaceAll(strconv.Quote(fmt.Sprint(v)), "#{", `\#{`)
}

// requirementString renders r in the "name [constraints] [(groups)]" form,
// marking development requirements that carry no group.
func requirementString(r metadata.Requirement) string {
	s := r.String()
	if r.Development && len(r.Groups) == 0 {
		s += " (development)"
	}
	return s
}
