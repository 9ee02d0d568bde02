// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

// ResourceHome is the resource type of the project homepage.
const ResourceHome = "home"

// Resource is a URI related to the project (homepage, docs, issue tracker).
type Resource struct {
	URI   string
	Type  string
	Label string
}

// ParseResource accepts a URI string, a mapping with uri/type/label keys, or a
// [type, uri] pair.
func ParseResource(raw any) (Resource, error) {
	return parseResource(raw, "resource")
}

func parseResource(raw any, field string) (Resource, error) {
	switch x := raw.(type) {
	case Resource:
		return x, nil
	case string:
		uri, err := valid.URI(x, field)
		if err != nil {
			return Resource{}, err
		}
		return Resource{URI: uri}, nil
	}
	if typ, uri, ok := pair(raw); ok {
		return resourceFromHash(map[string]any{"type": typ, "uri": uri}, raw, field)
	}
	if m, ok := valid.AsHash(raw); ok {
		return resourceFromHash(m, raw, field)
	}
	return Resource{}, valid.Invalid(field, raw, "resource must be a URI, mapping or [type, uri] pair")
}

func resourceFromHash(m map[string]any, raw any, field string) (Resource, error) {
	u, ok := lookup(m, "uri", "url", "href")
	if !ok {
		// {type: uri} shorthand
		if len(m) != 1 {
			return Resource{}, valid.Invalid(field, raw, "resource requires a uri")
		}
		for k, v := range m {
			return resourceFromHash(map[string]any{"type": k, "uri": v}, raw, field)
		}
	}
	var r Resource
	var err error
	if r.URI, err = valid.URI(u, field+".uri"); err != nil {
		return Resource{}, err
	}
	if t, ok := m["type"]; ok && t != nil {
		if r.Type, err = valid.Type(t, field+".type"); err != nil {
			return Resource{}, err
		}
	}
	if r.Label, err = optionalOneline(m, field+".label", "label", "name", "title"); err != nil {
		return Resource{}, err
	}
	return r, nil
}

// IsHome reports whether the resource is the project homepage.
func (r Resource) IsHome() bool {
	return r.Type == ResourceHome || strings.EqualFold(r.Label, "homepage")
}

// Canonical returns the serialized mapping of the resource.
func (r Resource) Canonical() any {
	m := map[string]any{"uri": r.URI}
	if r.Type != "" {
		m["type"] = r.Type
	}
	if r.Label != "" {
		m["label"] = r.Label
	}
	return m
}
