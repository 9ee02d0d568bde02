// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/dotindex/dotindex/internal/issue"
	"github.com/dotindex/dotindex/pkg/importer"
	"github.com/dotindex/dotindex/pkg/revision"
	"github.com/dotindex/dotindex/pkg/valid"
)

// classifyError maps a failure to the catalog issue that explains it.
// Issues already attached to the error chain win.
func classifyError(err error) issue.Id {
	if i, ok := issue.IssueOf(err); ok {
		return i.Id()
	}

	switch {
	case errors.Is(err, importer.ErrNoSources):
		return issue.NoSourcesId
	case errors.Is(err, importer.ErrNotRecognized):
		return issue.SourceNotRecognizedId
	case errors.Is(err, revision.ErrUnsupportedRevision):
		return issue.UnsupportedRevisionId
	case errors.Is(err, importer.ErrUnsupportedImport), errors.Is(err, importer.ErrSourceImport):
		return issue.SourceParseErrorId
	case errors.Is(err, valid.ErrValidation):
		return issue.InvalidFieldId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, fs.ErrExist):
		return issue.FileExistsId
	case errors.Is(err, fs.ErrNotExist):
		return issue.IndexNotFoundId
	default:
		return 0
	}
}

// suggestions returns the short hints shown under an error for id.
func suggestions(id issue.Id) []string {
	switch id {
	case issue.NoSourcesId:
		return []string{"Run 'index using <sources...>' to name the metadata sources"}
	case issue.SourceNotRecognizedId:
		return []string{"Use a metadata directory, a .yaml/.json/.toml/.cue document, an .html page or a .gemspec"}
	case issue.UnsupportedRevisionId:
		return []string{"Upgrade index to read documents written by a newer release"}
	case issue.SourceParseErrorId:
		return []string{"Check the syntax of the source file"}
	case issue.InvalidFieldId:
		return []string{"Fix the field value named in the error"}
	case issue.FileExistsId:
		return []string{"Use --force to overwrite, or --stdout to print instead"}
	case issue.IndexNotFoundId:
		return []string{"Run 'index using <sources...>' to create the index file"}
	case issue.PermissionDeniedId:
		return []string{"Check the file permissions"}
	default:
		return nil
	}
}

// fail wraps err with operation context and its catalog issue, and sets
// the process exit code.
func (a *App) fail(err error, operation, resource string) error {
	return a.failAs(classifyError(err), err, operation, resource)
}

// failAs is fail with an explicit catalog issue. An error that already
// carries operation context keeps it and only gains the issue.
func (a *App) failAs(id issue.Id, err error, operation, resource string) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if ae.Issue == 0 {
			ae.Issue = id
		}
		return &ExitError{Code: 1, Err: err}
	}
	ae = issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestions(id)...).
		WithIssue(id).
		Wrap(err).
		Build()
	return &ExitError{Code: 1, Err: ae}
}

// renderError writes err for the user. In verbose mode the catalog issue
// attached to err is rendered after it.
func (a *App) renderError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.opts.Verbose))
	if !a.opts.Verbose {
		return
	}
	i, ok := issue.IssueOf(err)
	if !ok {
		return
	}
	rendered, renderErr := i.Render(a.glamourStyle())
	if renderErr != nil {
		a.logger.Warn("failed to render issue catalog entry", "issueID", i.Id(), "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
