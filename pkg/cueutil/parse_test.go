// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	format?: "yaml" | "json"
	ui?: {
		verbose?: bool
	}
}
`

type testConfig struct {
	Format string `json:"format"`
	UI     struct {
		Verbose bool `json:"verbose"`
	} `json:"ui"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	res, err := ParseAndDecode[testConfig]([]byte(testSchema), []byte(`format: "json"
ui: verbose: true
`), "#Config", WithFilename("config.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecode() unexpected error: %v", err)
	}
	if res.Value.Format != "json" || !res.Value.UI.Verbose {
		t.Errorf("decoded = %+v", res.Value)
	}

	_, err = ParseAndDecode[testConfig]([]byte(testSchema), []byte(`format: "xml"`), "#Config", WithFilename("config.cue"))
	if err == nil {
		t.Fatal("ParseAndDecode() should reject a value outside the schema")
	}
	if !strings.HasPrefix(err.Error(), "config.cue: ") || !strings.Contains(err.Error(), "format") {
		t.Errorf("error should name the file and the field, got: %v", err)
	}

	_, err = ParseAndDecode[testConfig]([]byte(testSchema), []byte(`format: "yaml"`), "#Config", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("oversized input should be rejected, got: %v", err)
	}
}

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	v, err := DecodeValue([]byte(`
name:    "widget"
version: "1.0.0"
authors: [{name: "Jane"}]
`), WithFilename("meta.cue"))
	if err != nil {
		t.Fatalf("DecodeValue() unexpected error: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("DecodeValue() = %T, want map[string]any", v)
	}
	if m["name"] != "widget" {
		t.Errorf("name = %v", m["name"])
	}
	authors, ok := m["authors"].([]any)
	if !ok || len(authors) != 1 {
		t.Errorf("authors = %#v", m["authors"])
	}

	if _, err := DecodeValue([]byte(`name: string`), WithFilename("meta.cue")); err == nil {
		t.Error("DecodeValue() should reject non-concrete input")
	}
	if _, err := DecodeValue([]byte(`name: "a" &`), WithFilename("meta.cue")); err == nil || !strings.Contains(err.Error(), "meta.cue") {
		t.Errorf("syntax errors should name the file, got: %v", err)
	}
}
