// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dotindex/dotindex/internal/issue"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

// runIndex executes the command tree with args against a fresh App whose
// configuration directory is configDir (a temporary one when empty).
func runIndex(t *testing.T, configDir string, args ...string) runResult {
	t.Helper()
	if configDir == "" {
		configDir = t.TempDir()
	}
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr, ConfigDir: configDir})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// writeFiles creates files under dir from a name→content map.
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

// project creates a metadata directory and returns it with the index path
// to use next to it.
func project(t *testing.T) (meta, index string) {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"meta/name":              "widget\n",
		"meta/version":           "1.2.0\n",
		"meta/summary":           "Widget maker\n",
		"meta/authors.yaml":      "- Jane Doe <jane@example.org>\n",
		"meta/requirements.yaml": "- ansi >= 1.0\n- rake (build)\n",
	})
	return filepath.Join(dir, "meta"), filepath.Join(dir, ".index")
}

// wantIssue asserts that err is an ExitError carrying the catalog issue id.
func wantIssue(t *testing.T, err error, id issue.Id) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with issue %d, got nil", id)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("error %v should be an ExitError with code 1", err)
	}
	got, ok := issue.IssueOf(err)
	if !ok {
		t.Fatalf("error %v carries no issue, want %d", err, id)
	}
	if got.Id() != id {
		t.Errorf("issue = %d, want %d (error: %v)", got.Id(), id, err)
	}
}
