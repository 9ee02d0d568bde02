// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/dotindex/dotindex/pkg/metadata"
)

// FieldRevision is the key every raw mapping uses to declare its revision.
const FieldRevision = "revision"

type (
	// Step rewrites a mapping that conforms to one revision into the shape of
	// the next. Steps must be pure and must not invent fields.
	Step func(raw map[string]any) map[string]any

	// Schema describes one registered revision.
	Schema struct {
		// Revision is the revision number.
		Revision int
		// Fields lists the field names the revision's schema defines.
		Fields []string
		// Step upgrades a mapping of this revision to Revision+1. It is nil
		// for the current revision.
		Step Step
	}

	// Registry maps revision numbers to their schemas and upgrade steps.
	Registry struct {
		current int
		schemas map[int]Schema
	}
)

var defaultRegistry = mustRegistry(metadata.Revision, revision0(), Schema{
	Revision: metadata.Revision,
	Fields:   metadata.Fields(),
})

// NewRegistry builds a registry whose current revision is current. Every
// revision from 0 to current must be registered, and every revision below
// current needs a step.
func NewRegistry(current int, schemas ...Schema) (*Registry, error) {
	r := &Registry{current: current, schemas: make(map[int]Schema, len(schemas))}
	for _, s := range schemas {
		if _, dup := r.schemas[s.Revision]; dup {
			return nil, fmt.Errorf("%w: revision %d registered twice", ErrInvalidRegistry, s.Revision)
		}
		s.Fields = slices.Clone(s.Fields)
		r.schemas[s.Revision] = s
	}
	for rev := 0; rev <= current; rev++ {
		s, ok := r.schemas[rev]
		if !ok {
			return nil, fmt.Errorf("%w: revision %d is not registered", ErrInvalidRegistry, rev)
		}
		if rev < current && s.Step == nil {
			return nil, fmt.Errorf("%w: revision %d has no upgrade step", ErrInvalidRegistry, rev)
		}
	}
	return r, nil
}

func mustRegistry(current int, schemas ...Schema) *Registry {
	r, err := NewRegistry(current, schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the compiled-in registry.
func Default() *Registry { return defaultRegistry }

// Upconvert upgrades raw with the compiled-in registry.
func Upconvert(raw map[string]any) (map[string]any, error) {
	return defaultRegistry.Upconvert(raw)
}

// Current returns the current revision.
func (r *Registry) Current() int { return r.current }

// Revisions returns the registered revision numbers in ascending order.
func (r *Registry) Revisions() []int {
	return slices.Sorted(maps.Keys(r.schemas))
}

// Fields returns the field names of a registered revision.
func (r *Registry) Fields(rev int) ([]string, bool) {
	s, ok := r.schemas[rev]
	if !ok {
		return nil, false
	}
	return slices.Clone(s.Fields), true
}

// Upconvert returns a copy of raw rewritten to the current revision. A
// missing revision means revision 0. The input map is never modified.
func (r *Registry) Upconvert(raw map[string]any) (map[string]any, error) {
	data := make(map[string]any, len(raw)+1)
	maps.Copy(data, raw)

	rev := 0
	if v, ok := data[FieldRevision]; ok && v != nil {
		n, isInt := revisionNumber(v)
		if !isInt || n < 0 || n > r.current {
			return nil, &UnsupportedRevisionError{Value: v, Current: r.current}
		}
		rev = n
	}
	for ; rev < r.current; rev++ {
		data = r.schemas[rev].Step(data)
	}
	data[FieldRevision] = r.current
	return data, nil
}

// revisionNumber accepts integer kinds and integral floats (JSON numbers).
func revisionNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		return int(n), n <= math.MaxInt
	case uint:
		return int(n), n <= math.MaxInt
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
