// SPDX-License-Identifier: MPL-2.0

package valid

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel error wrapped by ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a field value that violates its shape contract.
type ValidationError struct {
	// Field is the schema field (or element path, e.g. "authors[1]") being validated.
	Field string
	// Value is the raw value that was rejected.
	Value any
	// Reason describes the violated rule.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid value %s: %s", describe(e.Value), e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s", e.Field, describe(e.Value), e.Reason)
}

// Unwrap returns ErrValidation so callers can use errors.Is for programmatic detection.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a *ValidationError with a formatted reason.
func Invalid(field string, value any, format string, args ...any) error {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Element returns the field path for the i-th element of a sequence field.
func Element(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}

// Key returns the field path for a keyed entry of a mapping field.
func Key(field, key string) string {
	return fmt.Sprintf("%s[%s]", field, key)
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "(nil)"
	case string:
		if len(x) > 60 {
			return fmt.Sprintf("%q...", x[:60])
		}
		return fmt.Sprintf("%q", x)
	default:
		s := fmt.Sprintf("%v", x)
		if len(s) > 60 {
			s = s[:60] + "..."
		}
		return fmt.Sprintf("(%T %s)", v, s)
	}
}
