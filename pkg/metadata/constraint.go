// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

const (
	// OpEqual matches exactly the given version.
	OpEqual Operator = "="
	// OpGreater matches versions after the given version.
	OpGreater Operator = ">"
	// OpGreaterEqual matches the given version and later.
	OpGreaterEqual Operator = ">="
	// OpLess matches versions before the given version.
	OpLess Operator = "<"
	// OpLessEqual matches the given version and earlier.
	OpLessEqual Operator = "<="
	// OpApprox is the pessimistic match: at least the given version and below
	// the next release of the second-to-last written component.
	OpApprox Operator = "~>"
)

// ErrInvalidOperator is the sentinel error wrapped by InvalidOperatorError.
var ErrInvalidOperator = errors.New("invalid constraint operator")

var constraintRegex = regexp.MustCompile(`^(~>|>=|<=|==|=|>|<)?\s*(\S+)$`)

type (
	// Operator is a version constraint comparison operator.
	Operator string

	// InvalidOperatorError is returned when an Operator value is not recognized.
	InvalidOperatorError struct {
		Value Operator
	}

	// Constraint pairs an operator with a version.
	Constraint struct {
		Op      Operator
		Version Version
		// text is the version as written ("1.2"), kept for rendering and for
		// the segment count of approximate matches.
		text     string
		segments int
	}
)

// Error implements the error interface.
func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid constraint operator %q (valid: =, >, >=, <, <=, ~>)", e.Value)
}

// Unwrap returns ErrInvalidOperator so callers can use errors.Is for programmatic detection.
func (e *InvalidOperatorError) Unwrap() error { return ErrInvalidOperator }

// IsValid returns whether the Operator is a recognized operator,
// and a list of validation errors if it is not.
func (o Operator) IsValid() (bool, []error) {
	switch o {
	case OpEqual, OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpApprox:
		return true, nil
	default:
		return false, []error{&InvalidOperatorError{Value: o}}
	}
}

// String returns the operator symbol.
func (o Operator) String() string { return string(o) }

// ParseConstraint parses a single constraint such as ">= 1.0", "~> 1.2" or
// "1.0.0" (implicit equality).
func ParseConstraint(s string) (Constraint, error) {
	return parseConstraint(s, "version")
}

// MustParseConstraint is like ParseConstraint but panics on error.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseConstraint(s, field string) (Constraint, error) {
	m := constraintRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Constraint{}, valid.Invalid(field, s, "not a version constraint")
	}
	op := Operator(m[1])
	switch op {
	case "":
		op = OpEqual
	case "==":
		op = OpEqual
	}
	if ok, errs := op.IsValid(); !ok {
		return Constraint{}, valid.Invalid(field, s, "%v", errs[0])
	}
	v, segments, err := parseVersionString(m[2], field)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Op: op, Version: v, text: strings.TrimPrefix(m[2], "v"), segments: segments}, nil
}

// ParseConstraints parses a constraint list given as one comma-separated
// string (">= 1.0, < 2.0") or as a list of constraint strings. An empty string
// or nil yields no constraints.
func ParseConstraints(raw any) ([]Constraint, error) {
	return parseConstraints(raw, "version")
}

func parseConstraints(raw any, field string) ([]Constraint, error) {
	var parts []string
	switch x := raw.(type) {
	case nil:
		return []Constraint{}, nil
	case string:
		for p := range strings.SplitSeq(x, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	case Constraint:
		return []Constraint{x}, nil
	case []Constraint:
		return append([]Constraint{}, x...), nil
	default:
		if v, err := parseVersion(raw, field); err == nil && !isList(raw) {
			return []Constraint{{Op: OpEqual, Version: v, text: v.String(), segments: 3}}, nil
		}
		list, err := valid.Array(raw, field, nil)
		if err != nil {
			return nil, valid.Invalid(field, raw, "constraints must be a string or list of strings")
		}
		for i, elem := range list {
			s, err := valid.Oneline(elem, valid.Element(field, i))
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
	}
	out := make([]Constraint, 0, len(parts))
	for _, p := range parts {
		c, err := parseConstraint(p, field)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func isList(raw any) bool {
	_, ok := valid.AsList(raw)
	return ok
}

// Satisfies reports whether candidate meets the constraint.
func (c Constraint) Satisfies(candidate Version) bool {
	cmp := candidate.Compare(c.Version)
	switch c.Op {
	case OpEqual:
		return cmp == 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpApprox:
		return cmp >= 0 && candidate.Compare(c.upperBound()) < 0
	default:
		return false
	}
}

// upperBound is the exclusive limit of an approximate match: the written
// version with its last component dropped and the one before incremented
// (~> 1.2 -> 2.0.0, ~> 1.2.3 -> 1.3.0). A single written component bumps major.
func (c Constraint) upperBound() Version {
	v := c.Version
	if c.segments >= 3 {
		return Version{Major: v.Major, Minor: v.Minor + 1}
	}
	return Version{Major: v.Major + 1}
}

// String renders the constraint as "op version".
func (c Constraint) String() string {
	text := c.text
	if text == "" {
		text = c.Version.String()
	}
	return fmt.Sprintf("%s %s", c.Op, text)
}

// JoinConstraints renders a constraint list as one comma-separated string.
func JoinConstraints(cs []Constraint) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// SatisfiesAll reports whether candidate meets every constraint. An empty
// list admits any version.
func SatisfiesAll(cs []Constraint, candidate Version) bool {
	for _, c := range cs {
		if !c.Satisfies(candidate) {
			return false
		}
	}
	return true
}
