// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"os"
	"slices"

	"golang.org/x/exp/maps"
)

// DocumentAdapter imports a whole structured document (.index, .yaml, .yml,
// .json, .toml, .cue) or an in-memory mapping.
type DocumentAdapter struct{}

// Name implements Adapter.
func (DocumentAdapter) Name() string { return "document" }

// Extensions returns the recognized document extensions, sorted.
func (DocumentAdapter) Extensions() []string {
	exts := maps.Keys(documentFormats)
	slices.Sort(exts)
	return exts
}

// TryImport implements Adapter.
func (a DocumentAdapter) TryImport(src Source, _ Prior) (map[string]any, bool, error) {
	if src.Data != nil {
		m, _ := normalize(src.Data).(map[string]any)
		return m, true, nil
	}
	ok, err := src.isFile(a.Extensions()...)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, false, err
	}
	m, err := decodeDocument(data, documentFormats[src.ext()], src.Path)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}
