// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceImport is the sentinel error wrapped by SourceImportError.
	ErrSourceImport = errors.New("cannot import source")

	// ErrUnsupportedImport is the sentinel error wrapped by UnsupportedImportError.
	ErrUnsupportedImport = errors.New("unsupported import")

	// ErrNotRecognized is the cause of a SourceImportError for an explicit
	// source that no adapter recognizes.
	ErrNotRecognized = errors.New("no adapter recognizes the source")

	// ErrNoSources is returned when an operation needs at least one source.
	ErrNoSources = errors.New("no sources given")
)

type (
	// SourceImportError reports an explicitly named source that could not be
	// read or recognized.
	SourceImportError struct {
		Source string
		Err    error
	}

	// UnsupportedImportError reports a source recognized by its kind but whose
	// content cannot be decoded.
	UnsupportedImportError struct {
		Source string
		Format string
		Err    error
	}
)

// Error implements the error interface.
func (e *SourceImportError) Error() string {
	return fmt.Sprintf("cannot import %s: %v", e.Source, e.Err)
}

// Unwrap returns ErrSourceImport and the underlying cause.
func (e *SourceImportError) Unwrap() []error { return []error{ErrSourceImport, e.Err} }

// Error implements the error interface.
func (e *UnsupportedImportError) Error() string {
	return fmt.Sprintf("unsupported %s import %s: %v", e.Format, e.Source, e.Err)
}

// Unwrap returns ErrUnsupportedImport so callers can use errors.Is for programmatic detection.
func (e *UnsupportedImportError) Unwrap() error { return ErrUnsupportedImport }
