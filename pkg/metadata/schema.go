// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"slices"
	"strings"
	"time"

	"github.com/dotindex/dotindex/pkg/valid"
)

const (
	// Revision is the current schema revision. Documents always carry it
	// after construction.
	Revision = 1

	// DefaultType is the type of documents that do not set one.
	DefaultType = "ruby"

	// LibPath is the paths entry that load_path and its aliases address.
	LibPath = "lib"
)

type (
	// Attribute binds one schema field to its validator and storage.
	Attribute struct {
		// Name is the field name as written in the canonical document.
		Name string
		// Sequence marks fields whose value is an ordered list that is
		// never nil and is replaced wholesale on assignment.
		Sequence bool

		set       func(d *Document, raw any) error
		get       func(d *Document) any
		canonical func(d *Document, now time.Time) any
	}

	// alias is a conventional field name that reads and writes another
	// field's storage.
	alias struct {
		target string
		set    func(d *Document, raw any) error
		get    func(d *Document) any
	}
)

var (
	attributes     []Attribute
	attributeIndex map[string]int
	aliases        map[string]alias
)

func init() {
	attributes = []Attribute{
		{Name: "revision", set: (*Document).setRevision,
			get:       func(d *Document) any { return d.revision },
			canonical: func(d *Document, _ time.Time) any { return d.revision }},
		{Name: "type", set: (*Document).setType,
			get:       func(d *Document) any { return d.typ },
			canonical: func(d *Document, _ time.Time) any { return d.typ }},
		{Name: "sources", Sequence: true, set: (*Document).setSources,
			get:       func(d *Document) any { return d.Sources() },
			canonical: func(d *Document, _ time.Time) any { return stringsToAny(d.sources) }},
		{Name: "name", set: (*Document).setName,
			get:       func(d *Document) any { return d.name },
			canonical: func(d *Document, _ time.Time) any { return optional(d.name) }},
		{Name: "title", set: (*Document).setTitle,
			get:       func(d *Document) any { return d.title },
			canonical: func(d *Document, _ time.Time) any { return optional(d.title) }},
		{Name: "version", set: (*Document).setVersion,
			get: func(d *Document) any {
				if d.version == nil {
					return nil
				}
				return *d.version
			},
			canonical: func(d *Document, _ time.Time) any {
				if d.version == nil {
					return nil
				}
				return d.version.Canonical()
			}},
		{Name: "codename", set: onelineSetter(func(d *Document) *string { return &d.codename }, "codename"),
			get:       func(d *Document) any { return d.codename },
			canonical: func(d *Document, _ time.Time) any { return optional(d.codename) }},
		{Name: "date", set: dateSetter(func(d *Document) *time.Time { return &d.date }, "date"),
			get: func(d *Document) any { return d.date },
			canonical: func(d *Document, now time.Time) any {
				if d.date.IsZero() {
					return now.UTC().Format(valid.DateLayout)
				}
				return d.date.Format(valid.DateLayout)
			}},
		{Name: "created", set: dateSetter(func(d *Document) *time.Time { return &d.created }, "created"),
			get: func(d *Document) any { return d.created },
			canonical: func(d *Document, _ time.Time) any {
				if d.created.IsZero() {
					return nil
				}
				return d.created.Format(valid.DateLayout)
			}},
		{Name: "summary", set: (*Document).setSummary,
			get:       func(d *Document) any { return d.summary },
			canonical: func(d *Document, _ time.Time) any { return optional(d.summary) }},
		{Name: "description", set: (*Document).setDescription,
			get:       func(d *Document) any { return d.description },
			canonical: func(d *Document, _ time.Time) any { return optional(d.description) }},
		{Name: "authors", Sequence: true, set: (*Document).setAuthors,
			get:       func(d *Document) any { return d.Authors() },
			canonical: func(d *Document, _ time.Time) any { return canonicalList(d.authors) }},
		{Name: "organizations", Sequence: true, set: (*Document).setOrganizations,
			get:       func(d *Document) any { return d.Organizations() },
			canonical: func(d *Document, _ time.Time) any { return canonicalList(d.organizations) }},
		{Name: "requirements", Sequence: true, set: (*Document).setRequirements,
			get:       func(d *Document) any { return d.Requirements() },
			canonical: func(d *Document, _ time.Time) any { return canonicalList(d.requirements) }},
		{Name: "conflicts", Sequence: true, set: (*Document).setConflicts,
			get:       func(d *Document) any { return d.Conflicts() },
			canonical: func(d *Document, _ time.Time) any { return canonicalList(d.conflicts) }},
		{Name: "alternatives", Sequence: true, set: stringsSetter(func(d *Document) *[]string { return &d.alternatives }, "alternatives", valid.Oneline),
			get:       func(d *Document) any { return d.Alternatives() },
			canonical: func(d *Document, _ time.Time) any { return stringsToAny(d.alternatives) }},
		{Name: "categories", Sequence: true, set: stringsSetter(func(d *Document) *[]string { return &d.categories }, "categories", valid.Oneline),
			get:       func(d *Document) any { return d.Categories() },
			canonical: func(d *Document, _ time.Time) any { return stringsToAny(d.categories) }},
		{Name: "resources", Sequence: true, set: (*Document).setResources,
			get:       func(d *Document) any { return d.Resources() },
			canonical: func(d *Document, _ time.Time) any { return canonicalList(d.resources) }},
		{Name: "repositories", Sequence: true, set: (*Document).setRepositories,
			get:       func(d *Document) any { return d.Repositories() },
			canonical: func(d *Document, _ time.Time) any { return canonicalList(d.repositories) }},
		{Name: "copyrights", Sequence: true, set: (*Document).setCopyrights,
			get:       func(d *Document) any { return d.Copyrights() },
			canonical: func(d *Document, _ time.Time) any { return canonicalList(d.copyrights) }},
		{Name: "customs", Sequence: true, set: (*Document).setCustoms,
			get:       func(d *Document) any { return d.Customs() },
			canonical: func(d *Document, _ time.Time) any { return stringsToAny(d.customs) }},
		{Name: "paths", set: (*Document).setPaths,
			get: func(d *Document) any { return d.Paths() },
			canonical: func(d *Document, _ time.Time) any {
				out := make(map[string]any, len(d.paths))
				for _, k := range sortedPathKeys(d.paths) {
					out[k] = stringsToAny(d.paths[k])
				}
				return out
			}},
		{Name: "engines", Sequence: true, set: stringsSetter(func(d *Document) *[]string { return &d.engines }, "engines", valid.Oneline),
			get:       func(d *Document) any { return d.Engines() },
			canonical: func(d *Document, _ time.Time) any { return stringsToAny(d.engines) }},
		{Name: "platforms", Sequence: true, set: stringsSetter(func(d *Document) *[]string { return &d.platforms }, "platforms", valid.Oneline),
			get:       func(d *Document) any { return d.Platforms() },
			canonical: func(d *Document, _ time.Time) any { return stringsToAny(d.platforms) }},
		{Name: "suite", set: onelineSetter(func(d *Document) *string { return &d.suite }, "suite"),
			get:       func(d *Document) any { return d.suite },
			canonical: func(d *Document, _ time.Time) any { return optional(d.suite) }},
		{Name: "namespace", set: (*Document).setNamespace,
			get:       func(d *Document) any { return d.namespace },
			canonical: func(d *Document, _ time.Time) any { return optional(d.namespace) }},
		{Name: "webcvs", set: (*Document).setWebCVS,
			get:       func(d *Document) any { return d.webcvs },
			canonical: func(d *Document, _ time.Time) any { return optional(d.webcvs) }},
		{Name: "install_message", set: (*Document).setInstallMessage,
			get:       func(d *Document) any { return d.installMessage },
			canonical: func(d *Document, _ time.Time) any { return optional(d.installMessage) }},
		{Name: "extra", set: (*Document).setExtra,
			get: func(d *Document) any { return d.Extra() },
			canonical: func(d *Document, _ time.Time) any {
				if d.extra == nil {
					return map[string]any{}
				}
				return deepCopy(d.extra)
			}},
	}

	attributeIndex = make(map[string]int, len(attributes))
	for i, a := range attributes {
		attributeIndex[a.Name] = i
	}

	libPath := alias{target: "paths", set: (*Document).setLoadPath, get: func(d *Document) any { return d.LoadPath() }}
	aliases = map[string]alias{
		"load_path":     libPath,
		"loadpath":      libPath,
		"require_paths": libPath,
		"requires":      {target: "requirements", set: (*Document).setRequirements, get: func(d *Document) any { return d.Requirements() }},
		"engine":        {target: "engines", set: attributes[attributeIndex["engines"]].set, get: func(d *Document) any { return d.Engines() }},
		"platform":      {target: "platforms", set: attributes[attributeIndex["platforms"]].set, get: func(d *Document) any { return d.Platforms() }},
		"copyright":     {target: "copyrights", set: (*Document).setCopyrights, get: func(d *Document) any { return d.Copyright() }},
		"organization":  {target: "organizations", set: (*Document).setOrganizations, get: func(d *Document) any { return d.Organizations() }},
		"source":        {target: "sources", set: (*Document).setSources, get: func(d *Document) any { return d.Sources() }},
		"homepage":      {target: "resources", set: (*Document).setHomepage, get: func(d *Document) any { return d.Homepage() }},
		"website":       {target: "resources", set: (*Document).setHomepage, get: func(d *Document) any { return d.Homepage() }},
		"license":       {target: "copyrights", set: (*Document).setLicense, get: func(d *Document) any { return d.License() }},
	}
}

// Attributes returns the schema fields in canonical order.
func Attributes() []Attribute {
	return slices.Clone(attributes)
}

// Fields returns the schema field names in canonical order.
func Fields() []string {
	names := make([]string, len(attributes))
	for i, a := range attributes {
		names[i] = a.Name
	}
	return names
}

// IsField reports whether name is a schema field.
func IsField(name string) bool {
	_, ok := attributeIndex[name]
	return ok
}

// IsAlias reports whether name is a conventional alias of a schema field.
func IsAlias(name string) bool {
	_, ok := aliases[name]
	return ok
}

// AliasTarget returns the schema field an alias reads and writes.
func AliasTarget(name string) (string, bool) {
	a, ok := aliases[name]
	return a.target, ok
}

// Lookup returns the binding of a schema field.
func Lookup(name string) (Attribute, bool) {
	i, ok := attributeIndex[name]
	if !ok {
		return Attribute{}, false
	}
	return attributes[i], true
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type canonicaler interface{ Canonical() any }

func canonicalList[T canonicaler](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v.Canonical()
	}
	return out
}

func onelineSetter(field func(d *Document) *string, name string) func(*Document, any) error {
	return func(d *Document, raw any) error {
		if raw == nil {
			*field(d) = ""
			return nil
		}
		s, err := valid.Oneline(raw, name)
		if err != nil {
			return err
		}
		*field(d) = strings.TrimSpace(s)
		return nil
	}
}

func dateSetter(field func(d *Document) *time.Time, name string) func(*Document, any) error {
	return func(d *Document, raw any) error {
		if raw == nil {
			*field(d) = time.Time{}
			return nil
		}
		t, err := valid.UTCDate(raw, name)
		if err != nil {
			return err
		}
		*field(d) = t
		return nil
	}
}

func stringsSetter(field func(d *Document) *[]string, name string, check func(any, string) (string, error)) func(*Document, any) error {
	return func(d *Document, raw any) error {
		list, err := stringList(raw, name, check)
		if err != nil {
			return err
		}
		*field(d) = list
		return nil
	}
}
