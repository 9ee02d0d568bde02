// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/dotindex/dotindex/internal/issue"
	"github.com/dotindex/dotindex/pkg/importer"
	"github.com/dotindex/dotindex/pkg/revision"
	"github.com/dotindex/dotindex/pkg/valid"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"no sources", fmt.Errorf("lock: %w", importer.ErrNoSources), issue.NoSourcesId},
		{"not recognized", &importer.SourceImportError{Source: "x.txt", Err: importer.ErrNotRecognized}, issue.SourceNotRecognizedId},
		{"source parse", &importer.SourceImportError{Source: "x.yaml", Err: errors.New("bad yaml")}, issue.SourceParseErrorId},
		{"unsupported import", &importer.UnsupportedImportError{Source: "x.gemspec", Format: "gemspec"}, issue.SourceParseErrorId},
		{"revision", &revision.UnsupportedRevisionError{Value: 9, Current: 1}, issue.UnsupportedRevisionId},
		{"validation", valid.Invalid("name", "a b", "not a package name"), issue.InvalidFieldId},
		{"permission", fmt.Errorf("write: %w", fs.ErrPermission), issue.PermissionDeniedId},
		{"exists", fmt.Errorf("x: %w", fs.ErrExist), issue.FileExistsId},
		{"missing", fmt.Errorf("x: %w", fs.ErrNotExist), issue.IndexNotFoundId},
		{"attached issue wins", issue.NewErrorContext().WithOperation("load configuration").WithIssue(issue.ConfigLoadFailedId).Wrap(fs.ErrNotExist).BuildError(), issue.ConfigLoadFailedId},
		{"unknown", errors.New("boom"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFail(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{})

	err := app.fail(importer.ErrNoSources, "lock index", ".index")
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("fail() = %T, want an ActionableError in the chain", err)
	}
	if ae.Operation != "lock index" || ae.Resource != ".index" || !ae.HasSuggestions() {
		t.Errorf("ActionableError = %+v", ae)
	}
	if !errors.Is(err, importer.ErrNoSources) {
		t.Error("fail() must keep the cause in the chain")
	}

	// Existing context is kept; only the issue is attached.
	inner := issue.NewErrorContext().WithOperation("load configuration").WithResource("c.cue").Wrap(errors.New("syntax")).BuildError()
	err = app.failAs(issue.ConfigLoadFailedId, inner, "other", "")
	if !errors.As(err, &ae) || ae.Operation != "load configuration" || ae.Issue != issue.ConfigLoadFailedId {
		t.Errorf("failAs() on an ActionableError = %+v", ae)
	}

	// ExitErrors pass through unchanged.
	exit := &ExitError{Code: 3, Err: errors.New("x")}
	if got := app.fail(exit, "op", ""); got != exit {
		t.Errorf("fail(ExitError) = %v, want it unchanged", got)
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{})
	err := app.fail(importer.ErrNoSources, "lock index", ".index")

	var quiet bytes.Buffer
	app.renderError(&quiet, err)
	if !strings.Contains(quiet.String(), "failed to lock index") || !strings.Contains(quiet.String(), "index using") {
		t.Errorf("renderError() = %q", quiet.String())
	}

	app.opts.Verbose = true
	var loud bytes.Buffer
	app.renderError(&loud, err)
	if len(loud.String()) <= len(quiet.String()) {
		t.Errorf("verbose rendering should add the issue help:\n%s", loud.String())
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	cause := errors.New("cause")
	if err := (&ExitError{Code: 1, Err: cause}); !errors.Is(err, cause) || err.Error() != "cause" {
		t.Errorf("ExitError should wrap its cause")
	}
}
