// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dotindex/dotindex/pkg/metadata"
	"github.com/dotindex/dotindex/pkg/revision"
)

// DefaultIndexFile is the conventional name of the canonical document.
const DefaultIndexFile = ".index"

type (
	// LockOptions controls Lock.
	LockOptions struct {
		// Path of the index file. Defaults to DefaultIndexFile.
		Path string
		// Sources to merge. When empty, the sources recorded in the
		// existing index file are used.
		Sources []Source
		// Force re-merges even when the index file is up to date.
		Force bool
		// Importer defaults to New().
		Importer *Importer
	}

	// LockResult is the outcome of Lock.
	LockResult struct {
		Document *metadata.Document
		// Updated reports whether the index file was rewritten.
		Updated bool
		// Report is nil when the index file was up to date.
		Report *Report
	}
)

// Exists reports whether an index file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Open reads an index file, upconverting older revisions. Files with a known
// document extension are decoded accordingly; anything else is read as YAML.
func Open(path string) (*metadata.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format, ok := documentFormats[Source{Path: path}.ext()]
	if !ok {
		format = formatYAML
	}
	raw, err := decodeDocument(data, format, path)
	if err != nil {
		return nil, err
	}
	raw, err = revision.Upconvert(raw)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := metadata.New(raw)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return doc, nil
}

// Save writes the canonical form of doc to path in the given format.
func Save(doc *metadata.Document, path string, format metadata.Format) error {
	data, err := metadata.Encode(doc, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Lock brings the index file up to date. It re-merges the sources when the
// index is missing or unreadable, when forced, or when any source changed
// after the index was written, and saves the result as YAML.
func Lock(ctx context.Context, opts LockOptions) (*LockResult, error) {
	path := opts.Path
	if path == "" {
		path = DefaultIndexFile
	}
	imp := opts.Importer
	if imp == nil {
		imp = New()
	}

	// Explicit sources rebuild the index, so an index that cannot be read is
	// only fatal when its recorded sources are needed.
	explicit := len(opts.Sources) > 0
	var current *metadata.Document
	if Exists(path) && !(explicit && opts.Force) {
		doc, err := Open(path)
		switch {
		case err == nil:
			current = doc
		case !explicit:
			return nil, err
		}
	}

	sources := opts.Sources
	if len(sources) == 0 && current != nil {
		for _, s := range current.Sources() {
			sources = append(sources, DiscoveredSource(s))
		}
	}
	if len(sources) == 0 {
		if current != nil {
			return &LockResult{Document: current}, nil
		}
		return nil, ErrNoSources
	}

	if current != nil && !opts.Force {
		stale, err := outOfDate(path, sources)
		if err != nil {
			return nil, err
		}
		if !stale {
			return &LockResult{Document: current}, nil
		}
	}

	report, err := imp.MergeWithReport(ctx, sources...)
	if err != nil {
		return nil, err
	}
	if err := Save(report.Document, path, metadata.FormatYAML); err != nil {
		return nil, err
	}
	return &LockResult{Document: report.Document, Updated: true, Report: report}, nil
}

// outOfDate reports whether any path source was modified after the index.
func outOfDate(index string, sources []Source) (bool, error) {
	info, err := os.Stat(index)
	if err != nil {
		return false, err
	}
	for _, s := range sources {
		if s.Path == "" {
			// In-memory sources cannot be compared.
			return true, nil
		}
		mod, err := newestModTime(s.Path)
		if err != nil {
			return false, err
		}
		if mod.After(info.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

// newestModTime returns the modification time of path or, for a directory,
// of its newest direct entry. A missing path counts as never modified.
func newestModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	newest := info.ModTime()
	if !info.IsDir() {
		return newest, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return time.Time{}, err
	}
	for _, e := range entries {
		ei, err := e.Info()
		if err != nil {
			continue
		}
		if ei.ModTime().After(newest) {
			newest = ei.ModTime()
		}
	}
	return newest, nil
}
