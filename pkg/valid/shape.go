// SPDX-License-Identifier: MPL-2.0

package valid

import (
	"reflect"
	"sort"
)

// AsHash normalizes a decoded mapping to map[string]any. Keys written in
// symbol style (":name") are stored without the leading colon. The returned
// map is a fresh copy; the input is never aliased.
func AsHash(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[keyString(k)] = v
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[keyString(k)] = v
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[keyString(k)] = v
		}
		return out, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[keyString(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

// AsList normalizes a decoded sequence to []any. Strings are not sequences.
// The returned slice is a fresh copy.
func AsList(raw any) ([]any, bool) {
	switch l := raw.(type) {
	case []any:
		out := make([]any, len(l))
		copy(out, l)
		return out, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
