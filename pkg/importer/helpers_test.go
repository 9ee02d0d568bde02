// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFiles creates files under dir from a name→content map. Names may
// contain slashes; parent directories are created.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// touch sets the modification time of path.
func touch(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func requirementNames(t *testing.T, raw any) []string {
	t.Helper()
	list, ok := raw.([]any)
	if !ok {
		t.Fatalf("requirements = %#v, want a list", raw)
	}
	var out []string
	for _, e := range list {
		switch x := e.(type) {
		case string:
			out = append(out, x)
		case map[string]any:
			out = append(out, x["name"].(string))
		default:
			t.Fatalf("unexpected requirement %#v", e)
		}
	}
	return out
}
