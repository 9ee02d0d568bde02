// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dotindex/dotindex/pkg/valid"
)

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCUE  Format = "cue"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format is a serialization of the canonical form.
	Format string

	// InvalidFormatError is returned when a Format value is not one of the
	// defined formats.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats returns every supported output format.
func Formats() []Format {
	return []Format{FormatYAML, FormatJSON, FormatTOML, FormatCUE}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: yaml, json, toml, cue)", e.Value)
}

// Unwrap returns ErrInvalidFormat so callers can use errors.Is for programmatic detection.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// IsValid returns whether the Format is one of the defined formats,
// and a list of validation errors if it is not.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatYAML, FormatJSON, FormatTOML, FormatCUE:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Encode serializes the canonical form of d. YAML and JSON keep schema field
// order; TOML and CUE sort keys and omit unset scalars (TOML) or render them
// as null (CUE).
func Encode(d *Document, f Format) ([]byte, error) {
	return EncodeAt(d, f, time.Now())
}

// EncodeAt is Encode with an explicit "now" for the date default.
func EncodeAt(d *Document, f Format, now time.Time) ([]byte, error) {
	if ok, errs := f.IsValid(); !ok {
		return nil, errs[0]
	}
	return encode(d.CanonicalAt(now), d.FieldOrder(), f)
}

// EncodeFields serializes only the named fields of the canonical form, in
// the order given. An alias keeps its own name; it renders its own value
// when that is a string or a string list and its target's canonical value
// otherwise. Names the document does not carry are rejected.
func EncodeFields(d *Document, f Format, fields ...string) ([]byte, error) {
	if ok, errs := f.IsValid(); !ok {
		return nil, errs[0]
	}
	full := d.Canonical()
	canon := make(map[string]any, len(fields))
	order := make([]string, 0, len(fields))
	for _, name := range fields {
		if _, dup := canon[name]; dup {
			continue
		}
		v, ok := full[name]
		if target, isAlias := AliasTarget(name); isAlias {
			v, ok = aliasValue(d, name, full[target]), true
		}
		if !ok {
			return nil, valid.Invalid(name, nil, "is not a field of this document")
		}
		canon[name] = v
		order = append(order, name)
	}
	return encode(canon, order, f)
}

func aliasValue(d *Document, name string, target any) any {
	v, _ := d.Get(name)
	switch x := v.(type) {
	case string:
		if x == "" {
			return nil
		}
		return x
	case []string:
		return stringsToAny(x)
	default:
		return target
	}
}

func encode(canon map[string]any, order []string, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return encodeJSON(canon, order)
	case FormatTOML:
		return encodeTOML(canon)
	case FormatCUE:
		return encodeCUE(canon)
	default:
		return encodeYAML(canon, order)
	}
}

func encodeYAML(canon map[string]any, order []string) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range order {
		var val yaml.Node
		if err := val.Encode(canon[k]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &val)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeJSON(canon map[string]any, order []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, k := range order {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		val, err := json.MarshalIndent(canon[k], "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(order)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func encodeTOML(canon map[string]any) ([]byte, error) {
	out, err := toml.Marshal(stripNil(canon))
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return out, nil
}

func encodeCUE(canon map[string]any) ([]byte, error) {
	v := cuecontext.New().Encode(canon)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("encode cue: %w", err)
	}
	out, err := format.Node(v.Syntax(cue.Concrete(true)))
	if err != nil {
		return nil, fmt.Errorf("format cue: %w", err)
	}
	return append(out, '\n'), nil
}

// stripNil drops nil entries at every level; TOML has no null.
func stripNil(raw any) any {
	switch x := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			if v == nil {
				continue
			}
			out[k] = stripNil(v)
		}
		return out
	case []any:
		out := make([]any, 0, len(x))
		for _, v := range x {
			if v != nil {
				out = append(out, stripNil(v))
			}
		}
		return out
	default:
		return raw
	}
}
