// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dotindex/dotindex/pkg/valid"
)

func TestDirectoryAdapter_FieldFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"name":              "widget\n",
		"requirements.yaml": "- foo >= 1.0\n- bar\n",
		"Summary.txt":       "  A small widget.  \n",
		"README.md":         "not a field",
		"notes.txt":         "not a field either",
		"version/version":   "9.9.9",
	})

	raw, ok, err := DirectoryAdapter{}.TryImport(PathSource(dir), fields{})
	if err != nil || !ok {
		t.Fatalf("TryImport() = ok %v, err %v", ok, err)
	}

	want := map[string]any{
		"name":         "widget",
		"requirements": []any{"foo >= 1.0", "bar"},
		"summary":      "A small widget.",
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("TryImport() mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectoryAdapter_NotADirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"name": "widget"})

	for _, path := range []string{dir + "/name", dir + "/missing"} {
		if _, ok, err := (DirectoryAdapter{}).TryImport(PathSource(path), fields{}); ok || err != nil {
			t.Errorf("TryImport(%s) = ok %v, err %v, want not recognized", path, ok, err)
		}
	}
}

func TestDirectoryAdapter_FieldFilesOverrideIndexFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.index": "name: first\nversion: 1.0.0\n",
		"b.index": "name: second\nsummary: from b\n",
		"name":    "third",
	})

	raw, ok, err := DirectoryAdapter{}.TryImport(PathSource(dir), fields{})
	if err != nil || !ok {
		t.Fatalf("TryImport() = ok %v, err %v", ok, err)
	}
	want := map[string]any{"name": "third", "version": "1.0.0", "summary": "from b"}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("TryImport() mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectoryAdapter_Customs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		want    map[string]any
		wantErr error
	}{
		{
			name: "yaml list",
			files: map[string]string{
				"customs.yml": "- mascot\n",
				"mascot":      "otter",
				"colour":      "blue",
			},
			want: map[string]any{"mascot": "otter", "customs": []any{"mascot"}},
		},
		{
			name: "glob patterns",
			files: map[string]string{
				"customs":    "team*\n\nslogan.txt\n",
				"team-lead":  "ada",
				"slogan.txt": "---\n- go\n- fast\n",
			},
			want: map[string]any{
				"team-lead": "ada",
				"slogan":    []any{"go", "fast"},
				"customs":   []any{"slogan", "team-lead"},
			},
		},
		{
			name: "listed files with other extensions",
			files: map[string]string{
				"customs":     "notes.md\nchanges.rst\n",
				"notes.md":    "Remember the otters.\n",
				"changes.rst": "---\n- first release\n",
				"README.md":   "not listed",
				"name":        "widget\n",
			},
			want: map[string]any{
				"name":    "widget",
				"notes":   "Remember the otters.",
				"changes": []any{"first release"},
				"customs": []any{"changes", "notes"},
			},
		},
		{
			name:    "not a list",
			files:   map[string]string{"customs.yaml": "mascot: otter\n"},
			wantErr: ErrUnsupportedImport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			raw, _, err := DirectoryAdapter{}.TryImport(PathSource(dir), fields{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("TryImport() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TryImport() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, raw); diff != "" {
				t.Errorf("TryImport() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDirectoryAdapter_StructuredFieldFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"authors.json":      `[{"name": "Ada", "email": "ada@example.com"}]`,
		"requirements.toml": "requirements = [\"foo >= 1.0\"]\n",
		"paths.cue":         "lib: [\"lib\", \"ext\"]\n",
	})

	raw, _, err := DirectoryAdapter{}.TryImport(PathSource(dir), fields{})
	if err != nil {
		t.Fatalf("TryImport() unexpected error: %v", err)
	}
	want := map[string]any{
		"authors":      []any{map[string]any{"name": "Ada", "email": "ada@example.com"}},
		"requirements": []any{"foo >= 1.0"},
		"paths":        map[string]any{"lib": []any{"lib", "ext"}},
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("TryImport() mismatch (-want +got):\n%s", diff)
	}

	if _, err := valid.Hash(raw["paths"], "paths", nil); err != nil {
		t.Errorf("paths should decode to a mapping: %v", err)
	}
}
