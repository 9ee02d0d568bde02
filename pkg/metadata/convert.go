// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

// toInt converts decoded numeric input (and numeric strings) to a non-negative int.
func toInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, n >= 0
	case int8:
		return int(n), n >= 0
	case int16:
		return int(n), n >= 0
	case int32:
		return int(n), n >= 0
	case int64:
		return int(n), n >= 0
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), n <= math.MaxInt
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		i, err := strconv.Atoi(s)
		if err != nil || i < 0 {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toBool(raw any, field string) (bool, error) {
	switch b := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return false, valid.Invalid(field, raw, "must be true or false")
	}
}

// stringList accepts a single string or a list of strings (singular to plural
// wrapping), checking every element with check.
func stringList(raw any, field string, check func(any, string) (string, error)) ([]string, error) {
	if raw == nil {
		return []string{}, nil
	}
	if s, ok := raw.(string); ok {
		v, err := check(s, valid.Element(field, 0))
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	}
	list, err := valid.Array(raw, field, nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for i, elem := range list {
		v, err := check(elem, valid.Element(field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// itemList wraps a single item into a list. A mapping is one item unless
// singleKeys are given and none of them is present, in which case each
// key/value pair becomes one [key, value] item (the "name => details"
// shorthand).
func itemList(raw any, field string, singleKeys ...string) ([]any, error) {
	if raw == nil {
		return []any{}, nil
	}
	if _, ok := raw.(string); ok {
		return []any{raw}, nil
	}
	if m, ok := valid.AsHash(raw); ok {
		if _, single := lookup(m, singleKeys...); single || len(singleKeys) == 0 {
			return []any{m}, nil
		}
		out := make([]any, 0, len(m))
		for _, k := range valid.SortedKeys(m) {
			out = append(out, []any{k, m[k]})
		}
		return out, nil
	}
	list, ok := valid.AsList(raw)
	if !ok {
		return nil, valid.Invalid(field, raw, "must be a list or mapping")
	}
	return list, nil
}

// pair splits a [name, details] list.
func pair(raw any) (string, any, bool) {
	list, ok := valid.AsList(raw)
	if !ok || len(list) != 2 {
		return "", nil, false
	}
	name, ok := list[0].(string)
	if !ok {
		return "", nil, false
	}
	return name, list[1], true
}

// lookup returns the first present key among names.
func lookup(m map[string]any, names ...string) (any, bool) {
	for _, n := range names {
		if v, ok := m[n]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func optionalOneline(m map[string]any, field string, names ...string) (string, error) {
	v, ok := lookup(m, names...)
	if !ok {
		return "", nil
	}
	s, err := valid.Oneline(v, field)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// uniqueStrings removes duplicates, keeping first occurrences in order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// deepCopy copies decoded maps and lists so stored values never alias caller data.
func deepCopy(raw any) any {
	if m, ok := valid.AsHash(raw); ok {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = deepCopy(v)
		}
		return out
	}
	if l, ok := valid.AsList(raw); ok {
		out := make([]any, len(l))
		for i, v := range l {
			out[i] = deepCopy(v)
		}
		return out
	}
	return raw
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func clonePaths(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}

func sortedPathKeys(in map[string][]string) []string {
	return slices.Sorted(maps.Keys(in))
}
