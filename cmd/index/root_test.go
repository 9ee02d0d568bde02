// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.4.0"
		Commit = "9f1c2ab"
		BuildDate = "2026-03-01T08:30:00Z"

		got := getVersionString()
		want := "v0.4.0 (commit: 9f1c2ab, built: 2026-03-01T08:30:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestRootCommand_Tree(t *testing.T) {
	t.Parallel()

	root := NewRootCommand(NewApp(Dependencies{}))
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"using", "adding", "removing", "generate", "watch", "config"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("root command lacks %q (has %s)", want, strings.Join(names, ", "))
		}
	}
	for _, flag := range []string{"verbose", "debug", "config", "file", "format", "force", "stdout"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
	if root.Flags().Lookup("static") == nil {
		t.Error("missing --static flag")
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, index := project(t)
	res := runIndex(t, "", "--file", index, "--format", "xml", "name")
	if res.err == nil || !strings.Contains(res.err.Error(), "xml") {
		t.Errorf("--format xml error = %v, want one naming xml", res.err)
	}
}

func TestRootCommand_ExplicitConfigMustExist(t *testing.T) {
	t.Parallel()

	res := runIndex(t, "", "--config", "/nonexistent/config.cue", "config", "show")
	if res.err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
	if !strings.Contains(res.err.Error(), "config file not found") {
		t.Errorf("error = %v", res.err)
	}
}
