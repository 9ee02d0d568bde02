// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedRevision is the sentinel error wrapped by UnsupportedRevisionError.
	ErrUnsupportedRevision = errors.New("unsupported revision")

	// ErrInvalidRegistry is returned when a registry is built with a gap in its
	// revision chain.
	ErrInvalidRegistry = errors.New("invalid revision registry")
)

// UnsupportedRevisionError is returned when a mapping declares a revision
// with no upconversion path: negative, non-integer, or newer than current.
type UnsupportedRevisionError struct {
	Value   any
	Current int
}

// Error implements the error interface.
func (e *UnsupportedRevisionError) Error() string {
	return fmt.Sprintf("unsupported revision %v (this tool reads revisions 0 to %d)", e.Value, e.Current)
}

// Unwrap returns ErrUnsupportedRevision so callers can use errors.Is for programmatic detection.
func (e *UnsupportedRevisionError) Unwrap() error { return ErrUnsupportedRevision }
