// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotindex/dotindex/internal/issue"
)

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "config.cue")

	res := runIndex(t, cfgDir, "config", "path")
	if res.err != nil {
		t.Fatalf("config path: %v", res.err)
	}
	if !strings.Contains(res.stdout, cfgPath) || !strings.Contains(res.stdout, "DOTINDEX_") {
		t.Errorf("config path output:\n%s", res.stdout)
	}

	res = runIndex(t, cfgDir, "config", "show")
	if res.err != nil {
		t.Fatalf("config show: %v", res.err)
	}
	if !strings.Contains(res.stdout, "(using defaults)") || !strings.Contains(res.stdout, ".index") {
		t.Errorf("config show before init:\n%s", res.stdout)
	}

	res = runIndex(t, cfgDir, "config", "init")
	if res.err != nil || !strings.Contains(res.stdout, "Created default configuration") {
		t.Fatalf("config init: err=%v out=%q", res.err, res.stdout)
	}
	res = runIndex(t, cfgDir, "config", "init")
	if res.err != nil || !strings.Contains(res.stdout, "already exists") {
		t.Errorf("second config init: err=%v out=%q", res.err, res.stdout)
	}

	res = runIndex(t, cfgDir, "config", "show")
	if res.err != nil || !strings.Contains(res.stdout, cfgPath) {
		t.Errorf("config show after init: err=%v out=\n%s", res.err, res.stdout)
	}

	res = runIndex(t, cfgDir, "config", "dump")
	if res.err != nil || !strings.Contains(res.stdout, `index_file: ".index"`) {
		t.Errorf("config dump: err=%v out=\n%s", res.err, res.stdout)
	}
}

func TestConfig_BrokenFileFallsBackWithWarning(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	writeFiles(t, cfgDir, map[string]string{"config.cue": "format: \"xml\"\n"})

	res := runIndex(t, cfgDir, "config", "path")
	if res.err != nil {
		t.Fatalf("a broken default config should not abort: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Warning") {
		t.Errorf("stderr = %q, want a warning", res.stderr)
	}

	res = runIndex(t, cfgDir, "config", "show")
	wantIssue(t, res.err, issue.ConfigLoadFailedId)
}

func TestConfig_FormatFromConfig(t *testing.T) {
	t.Parallel()

	meta, index := project(t)
	cfgDir := t.TempDir()
	writeFiles(t, cfgDir, map[string]string{"config.cue": "format: \"json\"\n"})

	if res := runIndex(t, cfgDir, "--file", index, "using", meta); res.err != nil {
		t.Fatal(res.err)
	}
	res := runIndex(t, cfgDir, "--file", index, "name", "version")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.HasPrefix(res.stdout, "{") {
		t.Errorf("output should be JSON from the configured format:\n%s", res.stdout)
	}

	res = runIndex(t, cfgDir, "--file", index, "--format", "yaml", "name", "version")
	if !strings.HasPrefix(res.stdout, "---") {
		t.Errorf("--format should beat the configuration:\n%s", res.stdout)
	}
}
