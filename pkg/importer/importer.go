// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dotindex/dotindex/pkg/metadata"
	"github.com/dotindex/dotindex/pkg/revision"
	"github.com/dotindex/dotindex/pkg/valid"
)

// synonyms groups the raw keys that name the same field. A source that sets
// one key of a group replaces whatever earlier sources set under any key of
// that group.
var synonyms = [][]string{
	{"sources", "source"},
	{"requirements", "requires", "dependencies"},
	{"organizations", "organization"},
	{"copyrights", "copyright"},
	{"engines", "engine"},
	{"platforms", "platform"},
	{"paths", "load_path", "loadpath", "require_paths"},
	{"homepage", "website"},
}

var synonymIndex = func() map[string][]string {
	idx := map[string][]string{}
	for _, group := range synonyms {
		for _, k := range group {
			idx[k] = group
		}
	}
	return idx
}()

type (
	// Importer merges sources into a Document. The zero value is not usable;
	// use New.
	Importer struct {
		adapters []Adapter
		registry *revision.Registry
	}

	// Option configures an Importer.
	Option func(*Importer)

	// Imported records which adapter read a source.
	Imported struct {
		Source  string
		Adapter string
	}

	// Report describes one merge.
	Report struct {
		Document *metadata.Document
		Imported []Imported
		// Skipped lists implicit sources no adapter recognized.
		Skipped []string
	}
)

// WithAdapters replaces the adapters tried for every source, in order.
func WithAdapters(adapters ...Adapter) Option {
	return func(i *Importer) { i.adapters = adapters }
}

// WithRegistry sets the revision registry used to upconvert merged data.
func WithRegistry(r *revision.Registry) Option {
	return func(i *Importer) { i.registry = r }
}

// New returns an Importer using DefaultAdapters and the default revision
// registry unless overridden.
func New(opts ...Option) *Importer {
	i := &Importer{adapters: DefaultAdapters(), registry: revision.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Merge is a convenience wrapper around New().Merge.
func Merge(ctx context.Context, sources ...Source) (*metadata.Document, error) {
	return New().Merge(ctx, sources...)
}

// Merge reads sources in order and builds one Document from them. Later
// sources replace the fields of earlier ones. No partial document is returned
// on error.
func (i *Importer) Merge(ctx context.Context, sources ...Source) (*metadata.Document, error) {
	report, err := i.MergeWithReport(ctx, sources...)
	if err != nil {
		return nil, err
	}
	return report.Document, nil
}

// MergeWithReport is Merge that also reports which adapter read each source
// and which implicit sources were skipped.
func (i *Importer) MergeWithReport(ctx context.Context, sources ...Source) (*Report, error) {
	acc := fields{}
	report := &Report{}
	var customs []any
	var contributed []string

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, adapter, err := i.importSource(src, acc)
		if err != nil {
			return nil, err
		}
		if adapter == "" {
			if src.Explicit {
				return nil, &SourceImportError{Source: src.Name(), Err: ErrNotRecognized}
			}
			report.Skipped = append(report.Skipped, src.Name())
			continue
		}
		report.Imported = append(report.Imported, Imported{Source: src.Name(), Adapter: adapter})
		if src.Path != "" {
			if !slices.Contains(contributed, src.Path) {
				contributed = append(contributed, src.Path)
			}
		}

		for k := range raw {
			for _, syn := range synonymIndex[k] {
				delete(acc, syn)
			}
		}
		for k, v := range raw {
			if k == "customs" {
				list, err := customsList(v)
				if err != nil {
					return nil, fmt.Errorf("import %s: %w", src.Name(), err)
				}
				for _, c := range list {
					customs = appendUnique(customs, c)
				}
				continue
			}
			acc[k] = v
		}
	}

	if customs != nil {
		acc["customs"] = customs
	}
	if contributed != nil {
		for _, syn := range synonymIndex["sources"] {
			delete(acc, syn)
		}
	}

	upgraded, err := i.registry.Upconvert(acc)
	if err != nil {
		return nil, err
	}
	doc, err := metadata.New(upgraded)
	if err != nil {
		return nil, err
	}
	for _, path := range contributed {
		if err := doc.AddSource(path); err != nil {
			return nil, err
		}
	}
	report.Document = doc
	return report, nil
}

// importSource tries each adapter in order. An empty adapter name means no
// adapter recognized the source.
func (i *Importer) importSource(src Source, prior Prior) (map[string]any, string, error) {
	for _, a := range i.adapters {
		raw, ok, err := a.TryImport(src, prior)
		if err != nil {
			var unsupported *UnsupportedImportError
			var invalid *valid.ValidationError
			if errors.As(err, &unsupported) || errors.As(err, &invalid) {
				return nil, "", fmt.Errorf("import %s: %w", src.Name(), err)
			}
			return nil, "", &SourceImportError{Source: src.Name(), Err: err}
		}
		if ok {
			return raw, a.Name(), nil
		}
	}
	return nil, "", nil
}

// customsList reads a customs value as a list of names.
func customsList(v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []any{x}, nil
	}
	list, err := valid.Array(v, "customs", nil)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func appendUnique(list []any, v any) []any {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
