// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotindex/dotindex/pkg/metadata"
	"github.com/dotindex/dotindex/pkg/valid"
)

const (
	// customsFile lists extra files of a directory to import as fields. It
	// may carry any extension ("customs", "customs.yml", "customs.txt").
	customsFile = "customs"

	// indexExt marks whole-document files inside a directory.
	indexExt = ".index"
)

// DirectoryAdapter imports the files of one directory, non-recursively.
//
// Files named "*.index" are decoded as whole documents. Any other file whose
// lower-cased base name without extension is a schema field, or is listed in
// the customs file, becomes the value of that field. Listed files with an
// unknown extension are read as text. Field files win over
// whole documents; among files of the same kind the lexically later name wins.
// Every other entry, subdirectories included, is ignored.
type DirectoryAdapter struct{}

// Name implements Adapter.
func (DirectoryAdapter) Name() string { return "directory" }

// TryImport implements Adapter.
func (DirectoryAdapter) TryImport(src Source, _ Prior) (map[string]any, bool, error) {
	_, dir, err := src.stat()
	if err != nil || !dir {
		return nil, false, err
	}

	entries, err := os.ReadDir(src.Path)
	if err != nil {
		return nil, false, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)

	customs, customsName, err := readCustoms(src.Path, files)
	if err != nil {
		return nil, false, err
	}

	out := map[string]any{}
	for _, name := range files {
		if strings.ToLower(filepath.Ext(name)) != indexExt {
			continue
		}
		path := filepath.Join(src.Path, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, err
		}
		doc, err := decodeDocument(data, formatYAML, path)
		if err != nil {
			return nil, false, err
		}
		for k, v := range doc {
			out[k] = v
		}
	}

	var imported []string
	for _, name := range files {
		if name == customsName {
			continue
		}
		lower := strings.ToLower(name)
		ext := filepath.Ext(lower)
		if ext == indexExt {
			continue
		}
		format, known := fieldFormats[ext]
		field := strings.TrimSuffix(lower, ext)
		custom := slices.Contains(customs, lower) || slices.Contains(customs, field)
		if !known && custom {
			// Listed files are read whatever their extension.
			format, known = formatText, true
		}
		if !known || field == "" || (!custom && !metadata.IsField(field)) {
			continue
		}
		path := filepath.Join(src.Path, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, err
		}
		v, err := decodeValue(data, format, path)
		if err != nil {
			return nil, false, err
		}
		out[field] = unwrapField(v, field, format)
		if custom && !metadata.IsField(field) {
			imported = append(imported, field)
		}
	}

	if len(imported) > 0 {
		list, _ := valid.AsList(out["customs"])
		if s, ok := out["customs"].(string); ok {
			list = []any{s}
		}
		for _, f := range imported {
			if !slices.Contains(list, any(f)) {
				list = append(list, f)
			}
		}
		out["customs"] = list
	}
	return out, true, nil
}

// unwrapField lets a TOML or CUE field file, which must hold a table, carry
// its value under a key named after the field ("requirements.toml" holding
// `requirements = [...]`).
func unwrapField(v any, field, format string) any {
	if format != formatTOML && format != formatCUE {
		return v
	}
	if m, ok := valid.AsHash(v); ok {
		if inner, has := m[field]; has && len(m) == 1 {
			return inner
		}
	}
	return v
}

// readCustoms finds the customs file among files and returns the lower-cased
// names it lists, expanding glob patterns against the directory.
func readCustoms(dir string, files []string) ([]string, string, error) {
	var name string
	for _, f := range files {
		lower := strings.ToLower(f)
		if lower == customsFile || strings.HasPrefix(lower, customsFile+".") {
			name = f
			break
		}
	}
	if name == "" {
		return nil, "", nil
	}

	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" || bytes.HasPrefix(data, yamlMarker) {
		v, err := decodeValue(data, formatYAML, path)
		if err != nil {
			return nil, "", err
		}
		if v == nil {
			return nil, name, nil
		}
		list, ok := valid.AsList(v)
		if !ok {
			return nil, "", &UnsupportedImportError{Source: path, Format: formatYAML, Err: fmt.Errorf("customs is not a list")}
		}
		out := make([]string, 0, len(list))
		for _, e := range list {
			out = append(out, strings.ToLower(fmt.Sprint(e)))
		}
		return out, name, nil
	}

	var out []string
	fsys := os.DirFS(dir)
	for line := range strings.Lines(string(data)) {
		pattern := strings.TrimSpace(line)
		if pattern == "" {
			continue
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, "", &UnsupportedImportError{Source: path, Format: formatText, Err: fmt.Errorf("pattern %q: %w", pattern, err)}
		}
		for _, m := range matches {
			out = append(out, strings.ToLower(filepath.Base(m)))
		}
	}
	return out, name, nil
}
