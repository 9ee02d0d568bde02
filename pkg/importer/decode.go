// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dotindex/dotindex/pkg/cueutil"
	"github.com/dotindex/dotindex/pkg/valid"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatTOML = "toml"
	formatCUE  = "cue"
	formatText = "text"
)

var (
	// documentFormats maps extensions of whole structured documents to their
	// decoder.
	documentFormats = map[string]string{
		".index": formatYAML,
		".yaml":  formatYAML,
		".yml":   formatYAML,
		".json":  formatJSON,
		".toml":  formatTOML,
		".cue":   formatCUE,
	}

	// fieldFormats maps extensions of single-field files to their decoder.
	fieldFormats = map[string]string{
		".yaml": formatYAML,
		".yml":  formatYAML,
		".json": formatJSON,
		".toml": formatTOML,
		".cue":  formatCUE,
		".txt":  formatText,
		".text": formatText,
		"":      formatText,
	}

	yamlMarker = []byte("---")
)

// decodeValue decodes data in the given format into plain Go values.
func decodeValue(data []byte, format, name string) (any, error) {
	var out any
	switch format {
	case formatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, &UnsupportedImportError{Source: name, Format: format, Err: err}
		}
	case formatJSON:
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, &UnsupportedImportError{Source: name, Format: format, Err: err}
		}
	case formatTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, &UnsupportedImportError{Source: name, Format: format, Err: err}
		}
		out = m
	case formatCUE:
		v, err := cueutil.DecodeValue(data, cueutil.WithFilename(name))
		if err != nil {
			return nil, &UnsupportedImportError{Source: name, Format: format, Err: err}
		}
		out = v
	case formatText:
		if bytes.HasPrefix(data, yamlMarker) {
			return decodeValue(data, formatYAML, name)
		}
		return string(bytes.TrimSpace(data)), nil
	default:
		return nil, &UnsupportedImportError{Source: name, Format: format, Err: fmt.Errorf("unknown format")}
	}
	return normalize(out), nil
}

// decodeDocument decodes a whole document, which must be a mapping. An empty
// document is an empty mapping.
func decodeDocument(data []byte, format, name string) (map[string]any, error) {
	v, err := decodeValue(data, format, name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := valid.AsHash(v)
	if !ok {
		return nil, &UnsupportedImportError{Source: name, Format: format, Err: fmt.Errorf("document is a %T, not a mapping", v)}
	}
	return m, nil
}

// normalize converts decoder-specific scalar types (TOML dates) to the types
// the metadata validators accept and turns every mapping into map[string]any.
func normalize(v any) any {
	switch x := v.(type) {
	case toml.LocalDate:
		return x.AsTime(time.UTC)
	case toml.LocalDateTime:
		return x.AsTime(time.UTC)
	case toml.LocalTime:
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	if m, ok := valid.AsHash(v); ok {
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = normalize(e)
		}
		return out
	}
	return v
}
