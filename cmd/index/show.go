// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/dotindex/dotindex/internal/issue"
	"github.com/dotindex/dotindex/pkg/importer"
	"github.com/dotindex/dotindex/pkg/metadata"
	"github.com/dotindex/dotindex/pkg/valid"
)

// show locks the index file (unless --static) and prints the requested
// fields, or the whole document when none are named. A single scalar field
// prints bare so scripts can use it directly.
func (a *App) show(ctx context.Context, fields []string) error {
	doc, err := a.current(ctx)
	if err != nil {
		return err
	}
	a.warnDuplicates(doc)

	if len(fields) == 1 {
		if s, ok := plainValue(doc, fields[0]); ok {
			return a.write([]byte(s))
		}
	}

	var out []byte
	if len(fields) == 0 {
		out, err = metadata.Encode(doc, a.opts.Format)
	} else {
		out, err = metadata.EncodeFields(doc, a.opts.Format, fields...)
	}
	if err != nil {
		return a.fail(err, "show", strings.Join(fields, " "))
	}
	return a.write(out)
}

// current returns the document the commands act on: the index file as is
// with --static, otherwise the locked index. Without an index file the
// configured default sources seed it.
func (a *App) current(ctx context.Context) (*metadata.Document, error) {
	path := a.opts.IndexFile
	if a.opts.Static {
		doc, err := importer.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, a.failAs(issue.IndexNotFoundId, err, "open index", path)
			}
			return nil, a.failAs(issue.IndexParseErrorId, err, "open index", path)
		}
		return doc, nil
	}

	var sources []importer.Source
	if !importer.Exists(path) {
		for _, s := range a.cfg.DefaultSources {
			sources = append(sources, importer.DiscoveredSource(s))
		}
	}
	return a.lock(ctx, importer.LockOptions{Path: path, Sources: sources, Force: a.opts.Force})
}

// lock runs importer.Lock and logs what it did.
func (a *App) lock(ctx context.Context, opts importer.LockOptions) (*metadata.Document, error) {
	opts.Importer = a.Importer
	res, err := importer.Lock(ctx, opts)
	if err != nil {
		return nil, a.fail(err, "lock index", opts.Path)
	}
	if !res.Updated {
		a.logger.Debug("index is up to date", "path", opts.Path)
		return res.Document, nil
	}
	for _, imp := range res.Report.Imported {
		a.logger.Debug("imported source", "source", imp.Source, "adapter", imp.Adapter)
	}
	for _, s := range res.Report.Skipped {
		a.logger.Info("skipped unrecognized source", "source", s)
	}
	a.logger.Info("index updated", "path", opts.Path, "sources", len(res.Report.Imported))
	return res.Document, nil
}

func (a *App) warnDuplicates(doc *metadata.Document) {
	for _, dup := range doc.DuplicateAuthors() {
		a.logger.Warn("duplicate author", "name", dup.Name)
	}
}

// plainValue renders a scalar field as bare text.
func plainValue(doc *metadata.Document, field string) (string, bool) {
	v, ok := doc.Get(field)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case int, bool:
		return fmt.Sprint(x), true
	case time.Time:
		if x.IsZero() {
			return "", field != "date"
		}
		return x.Format(valid.DateLayout), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}
