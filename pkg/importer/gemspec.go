// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dotindex/dotindex/pkg/metadata"
	"github.com/dotindex/dotindex/pkg/valid"
)

const gemspecExt = ".gemspec"

var gemDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// metadataResources maps gemspec metadata URI keys to resource types.
var metadataResources = []struct{ key, typ string }{
	{"homepage_uri", metadata.ResourceHome},
	{"documentation_uri", "docs"},
	{"bug_tracker_uri", "bugs"},
	{"changelog_uri", "changelog"},
	{"wiki_uri", "wiki"},
	{"mailing_list_uri", "mail"},
}

type (
	// Gemspec holds the attributes of a RubyGems specification that have a
	// counterpart in the metadata schema. Everything else a specification
	// carries (file lists, executables, signing keys) is dropped.
	Gemspec struct {
		Name                string
		Version             string
		Summary             string
		Description         string
		Homepage            string
		Authors             []string
		Email               []string
		Licenses            []string
		Date                time.Time
		RequirePaths        []string
		Dependencies        []GemDependency
		RequiredRubyVersion []string
		Platform            string
		Metadata            map[string]string
		PostInstallMessage  string
	}

	// GemDependency is one dependency of a Gemspec. Requirements are
	// constraint strings such as ">= 1.2".
	GemDependency struct {
		Name         string
		Requirements []string
		Development  bool
	}

	// GemspecAdapter imports ".gemspec" files holding the YAML serialization
	// of a specification, and in-memory Gemspec values.
	GemspecAdapter struct{}
)

// Name implements Adapter.
func (GemspecAdapter) Name() string { return "gemspec" }

// TryImport implements Adapter.
func (GemspecAdapter) TryImport(src Source, _ Prior) (map[string]any, bool, error) {
	if src.Descriptor != nil {
		return src.Descriptor.Fields(), true, nil
	}
	ok, err := src.isFile(gemspecExt)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, false, err
	}
	spec, err := ParseGemspec(data)
	if err != nil {
		return nil, false, &UnsupportedImportError{Source: src.Path, Format: "gemspec", Err: err}
	}
	return spec.Fields(), true, nil
}

// ParseGemspec reads the YAML serialization of a specification, as written
// by `gem specification --yaml`. Ruby object tags are ignored.
func ParseGemspec(data []byte) (*Gemspec, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	m, ok := valid.AsHash(raw)
	if !ok {
		return nil, fmt.Errorf("specification is a %T, not a mapping", raw)
	}

	spec := &Gemspec{
		Name:                scalar(m["name"]),
		Version:             gemVersion(m["version"]),
		Summary:             scalar(m["summary"]),
		Description:         scalar(m["description"]),
		Homepage:            scalar(m["homepage"]),
		Authors:             scalars(m["authors"]),
		Email:               scalars(m["email"]),
		Licenses:            append(scalars(m["license"]), scalars(m["licenses"])...),
		RequirePaths:        scalars(m["require_paths"]),
		RequiredRubyVersion: gemRequirement(m["required_ruby_version"]),
		Platform:            scalar(m["platform"]),
		PostInstallMessage:  scalar(m["post_install_message"]),
	}
	switch d := m["date"].(type) {
	case time.Time:
		spec.Date = d.UTC()
	case string:
		if t, err := time.Parse(valid.DateLayout, gemDateRegex.FindString(d)); err == nil {
			spec.Date = t
		}
	}
	if meta, ok := valid.AsHash(m["metadata"]); ok {
		spec.Metadata = make(map[string]string, len(meta))
		for k, v := range meta {
			spec.Metadata[k] = scalar(v)
		}
	}
	deps, _ := valid.AsList(m["dependencies"])
	for _, d := range deps {
		dm, ok := valid.AsHash(d)
		if !ok || scalar(dm["name"]) == "" {
			continue
		}
		spec.Dependencies = append(spec.Dependencies, GemDependency{
			Name:         scalar(dm["name"]),
			Requirements: gemRequirement(dm["requirement"]),
			Development:  strings.TrimPrefix(scalar(dm["type"]), ":") == "development",
		})
	}
	return spec, nil
}

// Fields translates the specification into raw metadata fields. Empty
// attributes produce no field.
func (g *Gemspec) Fields() map[string]any {
	out := map[string]any{}
	set := func(field, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out[field] = v
		}
	}
	set("name", g.Name)
	set("version", g.Version)
	set("summary", g.Summary)
	set("description", g.Description)
	set("install_message", g.PostInstallMessage)
	if !g.Date.IsZero() {
		out["date"] = g.Date
	}

	if len(g.Authors) > 0 {
		authors := make([]any, 0, len(g.Authors))
		for i, name := range g.Authors {
			a := map[string]any{"name": name}
			if i < len(g.Email) && g.Email[i] != "" {
				a["email"] = g.Email[i]
			}
			authors = append(authors, a)
		}
		out["authors"] = authors
	}

	if len(g.Licenses) > 0 {
		out["license"] = g.Licenses[0]
	}
	if len(g.RequirePaths) > 0 {
		out["paths"] = map[string]any{"lib": stringsToList(g.RequirePaths)}
	}

	var reqs []any
	for _, d := range g.Dependencies {
		r := map[string]any{"name": d.Name}
		if cs := meaningfulConstraints(d.Requirements); len(cs) > 0 {
			r["version"] = strings.Join(cs, ", ")
		}
		if d.Development {
			r["development"] = true
		}
		reqs = append(reqs, r)
	}
	if reqs != nil {
		out["requirements"] = reqs
	}

	if cs := meaningfulConstraints(g.RequiredRubyVersion); len(cs) > 0 {
		out["engines"] = []any{"ruby " + strings.Join(cs, ", ")}
	}
	if g.Platform != "" && g.Platform != "ruby" {
		out["platforms"] = []any{g.Platform}
	}

	homepage := strings.TrimSpace(g.Homepage)
	var resources []any
	for _, r := range metadataResources {
		uri := strings.TrimSpace(g.Metadata[r.key])
		if uri == "" || (r.typ == metadata.ResourceHome && homepage != "") {
			continue
		}
		resources = append(resources, map[string]any{"uri": uri, "type": r.typ})
	}
	if homepage != "" {
		resources = append([]any{map[string]any{"uri": homepage, "type": metadata.ResourceHome}}, resources...)
	}
	if resources != nil {
		out["resources"] = resources
	}
	if uri := strings.TrimSpace(g.Metadata["source_code_uri"]); uri != "" {
		out["repositories"] = []any{map[string]any{"uri": uri, "id": "source"}}
	}
	return out
}

// meaningfulConstraints drops the ">= 0" placeholder RubyGems writes for an
// unconstrained dependency.
func meaningfulConstraints(cs []string) []string {
	return slices.DeleteFunc(slices.Clone(cs), func(c string) bool {
		c = strings.Join(strings.Fields(c), " ")
		return c == "" || c == ">= 0" || c == ">= 0.0" || c == ">= 0.0.0"
	})
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func scalars(v any) []string {
	if list, ok := valid.AsList(v); ok {
		out := make([]string, 0, len(list))
		for _, e := range list {
			if s := scalar(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := scalar(v); s != "" {
		return []string{s}
	}
	return nil
}

// gemVersion accepts a plain version string or a serialized Gem::Version
// mapping ({version: "1.2.3"}).
func gemVersion(v any) string {
	if m, ok := valid.AsHash(v); ok {
		return scalar(m["version"])
	}
	return scalar(v)
}

// gemRequirement accepts a constraint string, a list of them, or a serialized
// Gem::Requirement ({requirements: [[">=", {version: "1.0"}]]}).
func gemRequirement(v any) []string {
	m, ok := valid.AsHash(v)
	if !ok {
		return scalars(v)
	}
	pairs, _ := valid.AsList(m["requirements"])
	var out []string
	for _, p := range pairs {
		pair, ok := valid.AsList(p)
		if !ok || len(pair) != 2 {
			continue
		}
		out = append(out, scalar(pair[0])+" "+gemVersion(pair[1]))
	}
	return out
}
