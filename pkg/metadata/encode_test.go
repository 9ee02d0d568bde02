// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dotindex/dotindex/pkg/valid"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	d, err := New(map[string]any{
		"name":         "widget",
		"version":      "2.1.0",
		"summary":      "Widget maker",
		"authors":      []any{"Jane <jane@example.org>"},
		"requirements": []any{"ansi >= 1.0"},
		"homepage":     "https://widget.example.org",
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return d
}

func TestEncode_YAMLKeepsFieldOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out, err := EncodeAt(sampleDocument(t), FormatYAML, now)
	if err != nil {
		t.Fatalf("EncodeAt(yaml) unexpected error: %v", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(out, &node); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	root := node.Content[0]
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	if diff := cmp.Diff(Fields(), keys); diff != "" {
		t.Errorf("YAML key order mismatch (-want +got):\n%s", diff)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	again, err := New(decoded)
	if err != nil {
		t.Fatalf("New(decoded yaml) unexpected error: %v", err)
	}
	if diff := cmp.Diff(sampleDocument(t).CanonicalAt(now), again.CanonicalAt(now)); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_JSON(t *testing.T) {
	t.Parallel()

	out, err := Encode(sampleDocument(t), FormatJSON)
	if err != nil {
		t.Fatalf("Encode(json) unexpected error: %v", err)
	}
	if !json.Valid(out) {
		t.Fatalf("output is not JSON:\n%s", out)
	}
	if !strings.HasPrefix(string(out), "{\n  \"revision\": 1,") {
		t.Errorf("JSON should start with the revision field:\n%s", out)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["name"] != "widget" || decoded["version"] != "2.1.0" {
		t.Errorf("decoded JSON = %v", decoded)
	}
}

func TestEncode_TOML(t *testing.T) {
	t.Parallel()

	out, err := Encode(sampleDocument(t), FormatTOML)
	if err != nil {
		t.Fatalf("Encode(toml) unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := toml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, out)
	}
	if _, ok := decoded["codename"]; ok {
		t.Error("unset scalars should be omitted from TOML")
	}
	if decoded["name"] != "widget" {
		t.Errorf("decoded TOML name = %v", decoded["name"])
	}
}

func TestEncode_CUE(t *testing.T) {
	t.Parallel()

	out, err := Encode(sampleDocument(t), FormatCUE)
	if err != nil {
		t.Fatalf("Encode(cue) unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `name:`) || !strings.Contains(string(out), `"widget"`) {
		t.Errorf("CUE output missing name:\n%s", out)
	}
}

func TestEncode_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := Encode(Empty(), Format("xml"))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Encode(xml) error = %v, want ErrInvalidFormat", err)
	}
}

func TestEncodeFields(t *testing.T) {
	t.Parallel()

	d := sampleDocument(t)

	out, err := EncodeFields(d, FormatJSON, "name", "homepage", "requires", "name")
	if err != nil {
		t.Fatalf("EncodeFields() unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := map[string]any{
		"name":     "widget",
		"homepage": "https://widget.example.org",
	}
	if diff := cmp.Diff(want["name"], got["name"]); diff != "" {
		t.Errorf("name mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want["homepage"], got["homepage"]); diff != "" {
		t.Errorf("homepage mismatch (-want +got):\n%s", diff)
	}
	if _, ok := got["requires"]; !ok {
		t.Error("requires should render the requirements")
	}
	if len(got) != 3 {
		t.Errorf("EncodeFields() rendered %d keys, want 3", len(got))
	}

	_, err = EncodeFields(d, FormatYAML, "nonsense")
	var ve *valid.ValidationError
	if !errors.As(err, &ve) || ve.Field != "nonsense" {
		t.Errorf("EncodeFields(unknown) error = %v, want ValidationError for nonsense", err)
	}
}
