// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"maps"

	"github.com/dotindex/dotindex/pkg/metadata"
	"github.com/dotindex/dotindex/pkg/valid"
)

// revision0 is the first layout: singular source and organization,
// load_path (with its rubygems spellings) instead of paths, requires as well
// as requirements, and a separate dependencies list.
func revision0() Schema {
	return Schema{
		Revision: 0,
		Fields: []string{
			"revision", "type", "source", "name", "title", "version", "codename",
			"date", "created", "summary", "description", "authors", "organization",
			"requirements", "dependencies", "conflicts", "alternatives", "categories",
			"resources", "repositories", "copyrights", "customs", "load_path",
			"engines", "platforms", "suite", "namespace", "webcvs", "install_message",
			"extra",
		},
		Step: step0to1,
	}
}

func step0to1(raw map[string]any) map[string]any {
	data := maps.Clone(raw)

	rename(data, "source", "sources")
	rename(data, "requires", "requirements")

	if deps, ok := data["dependencies"]; ok {
		delete(data, "dependencies")
		if reqs, has := data["requirements"]; has && reqs != nil {
			data["requirements"] = append(asItems(reqs), asItems(deps)...)
		} else {
			data["requirements"] = deps
		}
	}

	for _, old := range []string{"load_path", "loadpath", "require_paths"} {
		v, ok := data[old]
		if !ok {
			continue
		}
		delete(data, old)
		paths, isHash := valid.AsHash(data["paths"])
		if !isHash {
			paths = map[string]any{}
		}
		if _, has := paths[metadata.LibPath]; !has {
			paths[metadata.LibPath] = v
		}
		data["paths"] = paths
	}

	if org, ok := data["organization"]; ok {
		delete(data, "organization")
		if _, has := data["organizations"]; !has && org != nil {
			if s, isString := org.(string); isString {
				data["organizations"] = []any{map[string]any{"name": s}}
			} else {
				data["organizations"] = asItems(org)
			}
		}
	}
	return data
}

// rename moves from to to unless to is already present, in which case from
// is dropped.
func rename(data map[string]any, from, to string) {
	v, ok := data[from]
	if !ok {
		return
	}
	delete(data, from)
	if _, has := data[to]; !has {
		data[to] = v
	}
}

// asItems turns a single item or a name => details mapping into a list.
func asItems(raw any) []any {
	if l, ok := valid.AsList(raw); ok {
		return l
	}
	if m, ok := valid.AsHash(raw); ok {
		if _, single := m["name"]; single {
			return []any{m}
		}
		out := make([]any, 0, len(m))
		for _, k := range valid.SortedKeys(m) {
			out = append(out, []any{k, m[k]})
		}
		return out
	}
	return []any{raw}
}
