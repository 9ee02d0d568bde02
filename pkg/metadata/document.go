// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dotindex/dotindex/pkg/valid"
)

// Document is a validated project metadata record. Every stored value has
// passed its field validator; the zero value is not usable, construct with
// New or Empty.
type Document struct {
	revision       int
	typ            string
	sources        []string
	name           string
	title          string
	version        *Version
	codename       string
	date           time.Time
	created        time.Time
	summary        string
	description    string
	authors        []Author
	organizations  []Author
	requirements   []Requirement
	conflicts      []Conflict
	alternatives   []string
	categories     []string
	resources      []Resource
	repositories   []Repository
	copyrights     []Copyright
	customs        []string
	paths          map[string][]string
	engines        []string
	platforms      []string
	suite          string
	namespace      string
	webcvs         string
	installMessage string
	extra          map[string]any

	// license is the primary license applied to copyrights without one.
	license string
	// custom holds values of fields named in customs.
	custom map[string]any
}

// Empty returns a document holding only schema defaults.
func Empty() *Document {
	return &Document{
		revision:      Revision,
		typ:           DefaultType,
		sources:       []string{},
		authors:       []Author{},
		organizations: []Author{},
		requirements:  []Requirement{},
		conflicts:     []Conflict{},
		alternatives:  []string{},
		categories:    []string{},
		resources:     []Resource{},
		repositories:  []Repository{},
		copyrights:    []Copyright{},
		customs:       []string{},
		paths:         map[string][]string{LibPath: {"lib"}},
		engines:       []string{},
		platforms:     []string{},
		custom:        map[string]any{},
	}
}

// New constructs a document from a raw mapping already at the current
// revision. Fields are assigned in a fixed order: customs, license, schema
// fields in canonical order, aliases, then custom fields. The first invalid
// value aborts construction.
func New(raw map[string]any) (*Document, error) {
	d := Empty()
	data, _ := valid.AsHash(raw)
	if data == nil {
		data = map[string]any{}
	}

	applied := map[string]bool{}
	apply := func(name string) error {
		v, ok := data[name]
		if !ok || applied[name] {
			return nil
		}
		applied[name] = true
		return d.Set(name, v)
	}

	for _, name := range []string{"customs", "license"} {
		if err := apply(name); err != nil {
			return nil, err
		}
	}
	for _, a := range attributes {
		if err := apply(a.Name); err != nil {
			return nil, err
		}
	}
	for _, name := range valid.SortedKeys(aliases) {
		if err := apply(name); err != nil {
			return nil, err
		}
	}
	for _, name := range valid.SortedKeys(data) {
		if err := apply(name); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Set validates raw and stores it in field, replacing any prior value.
// field may be a schema field, an alias or a field listed in customs. A nil
// raw value clears scalar fields and empties sequence fields.
func (d *Document) Set(field string, raw any) error {
	if i, ok := attributeIndex[field]; ok {
		return attributes[i].set(d, raw)
	}
	if a, ok := aliases[field]; ok {
		return a.set(d, raw)
	}
	if slices.Contains(d.customs, field) {
		if raw == nil {
			delete(d.custom, field)
			return nil
		}
		d.custom[field] = deepCopy(raw)
		return nil
	}
	return valid.Invalid(field, raw, "unknown field (list it in customs to keep it)")
}

// Get returns the typed value of a schema field, alias or custom field.
// Sequences and mappings are copies.
func (d *Document) Get(field string) (any, bool) {
	if i, ok := attributeIndex[field]; ok {
		return attributes[i].get(d), true
	}
	if a, ok := aliases[field]; ok {
		return a.get(d), true
	}
	v, ok := d.custom[field]
	if !ok {
		return nil, false
	}
	return deepCopy(v), true
}

// Valid reports whether the document carries a name and a version.
func (d *Document) Valid() bool {
	return d.name != "" && d.version != nil
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	c.sources = slices.Clone(d.sources)
	if d.version != nil {
		v := *d.version
		c.version = &v
	}
	c.authors = d.Authors()
	c.organizations = d.Organizations()
	c.requirements = d.Requirements()
	c.conflicts = d.Conflicts()
	c.alternatives = slices.Clone(d.alternatives)
	c.categories = slices.Clone(d.categories)
	c.resources = slices.Clone(d.resources)
	c.repositories = slices.Clone(d.repositories)
	c.copyrights = slices.Clone(d.copyrights)
	c.customs = slices.Clone(d.customs)
	c.paths = clonePaths(d.paths)
	c.engines = slices.Clone(d.engines)
	c.platforms = slices.Clone(d.platforms)
	c.extra = d.Extra()
	c.custom = make(map[string]any, len(d.custom))
	for k, v := range d.custom {
		c.custom[k] = deepCopy(v)
	}
	return &c
}

// -- Setters ----------------------------------------------------------------

func (d *Document) setRevision(raw any) error {
	if raw == nil {
		return nil
	}
	n, ok := toInt(raw)
	if !ok || n != Revision {
		return valid.Invalid("revision", raw, "revision is not current (%d)", Revision)
	}
	d.revision = n
	return nil
}

func (d *Document) setType(raw any) error {
	if raw == nil {
		d.typ = DefaultType
		return nil
	}
	s, err := valid.Type(raw, "type")
	if err != nil {
		return err
	}
	d.typ = s
	return nil
}

func (d *Document) setSources(raw any) error {
	list, err := stringList(raw, "sources", valid.Oneline)
	if err != nil {
		return err
	}
	d.sources = uniqueStrings(list)
	return nil
}

// setName stores the package name and defaults the title to its capitalized
// form when no title is set.
func (d *Document) setName(raw any) error {
	if raw == nil {
		d.name = ""
		return nil
	}
	s, err := valid.Name(raw, "name")
	if err != nil {
		return err
	}
	d.name = s
	if d.title == "" {
		d.title = Capitalize(s)
	}
	return nil
}

func (d *Document) setTitle(raw any) error {
	if raw == nil {
		d.title = ""
		return nil
	}
	s, err := valid.Oneline(raw, "title")
	if err != nil {
		return err
	}
	d.title = valid.NormalizeOneline(s)
	return nil
}

func (d *Document) setVersion(raw any) error {
	if raw == nil {
		d.version = nil
		return nil
	}
	v, err := parseVersion(raw, "version")
	if err != nil {
		return err
	}
	d.version = &v
	return nil
}

func (d *Document) setSummary(raw any) error {
	if raw == nil {
		d.summary = ""
		return nil
	}
	s, err := valid.String(raw, "summary")
	if err != nil {
		return err
	}
	d.summary = valid.NormalizeOneline(s)
	return nil
}

func (d *Document) setDescription(raw any) error {
	if raw == nil {
		d.description = ""
		return nil
	}
	s, err := valid.String(raw, "description")
	if err != nil {
		return err
	}
	d.description = s
	return nil
}

func (d *Document) setAuthors(raw any) error {
	list, err := parseItems(raw, "authors", parseAuthor)
	if err != nil {
		return err
	}
	d.authors = list
	return nil
}

func (d *Document) setOrganizations(raw any) error {
	list, err := parseItems(raw, "organizations", parseAuthor)
	if err != nil {
		return err
	}
	d.organizations = list
	return nil
}

func (d *Document) setRequirements(raw any) error {
	list, err := parseItems(raw, "requirements", parseRequirement, "name")
	if err != nil {
		return err
	}
	d.requirements = list
	return nil
}

func (d *Document) setConflicts(raw any) error {
	list, err := parseItems(raw, "conflicts", parseConflict, "name")
	if err != nil {
		return err
	}
	d.conflicts = list
	return nil
}

func (d *Document) setResources(raw any) error {
	list, err := parseItems(raw, "resources", parseResource, "uri", "url", "href")
	if err != nil {
		return err
	}
	d.resources = list
	return nil
}

func (d *Document) setRepositories(raw any) error {
	list, err := parseItems(raw, "repositories", parseRepository, "uri", "url")
	if err != nil {
		return err
	}
	d.repositories = list
	return nil
}

func (d *Document) setCopyrights(raw any) error {
	list, err := parseItems(raw, "copyrights", func(item any, field string) (Copyright, error) {
		return parseCopyright(item, d.license, field)
	}, "holder")
	if err != nil {
		return err
	}
	d.copyrights = list
	return nil
}

func (d *Document) setCustoms(raw any) error {
	list, err := stringList(raw, "customs", valid.Oneline)
	if err != nil {
		return err
	}
	d.customs = uniqueStrings(list)
	for k := range d.custom {
		if !slices.Contains(d.customs, k) {
			delete(d.custom, k)
		}
	}
	return nil
}

func (d *Document) setPaths(raw any) error {
	if raw == nil {
		d.paths = map[string][]string{}
		return nil
	}
	paths := map[string][]string{}
	_, err := valid.Hash(raw, "paths", func(key string, value any, field string) error {
		list, err := stringList(value, field, valid.Path)
		if err != nil {
			return err
		}
		paths[key] = list
		return nil
	})
	if err != nil {
		return err
	}
	d.paths = paths
	return nil
}

func (d *Document) setLoadPath(raw any) error {
	if raw == nil {
		delete(d.paths, LibPath)
		return nil
	}
	list, err := stringList(raw, "load_path", valid.Path)
	if err != nil {
		return err
	}
	d.paths[LibPath] = list
	return nil
}

func (d *Document) setNamespace(raw any) error {
	if raw == nil {
		d.namespace = ""
		return nil
	}
	s, err := valid.Constant(raw, "namespace")
	if err != nil {
		return err
	}
	d.namespace = s
	return nil
}

func (d *Document) setWebCVS(raw any) error {
	if raw == nil {
		d.webcvs = ""
		return nil
	}
	s, err := valid.URI(raw, "webcvs")
	if err != nil {
		return err
	}
	d.webcvs = s
	return nil
}

// setInstallMessage accepts text or a list of lines.
func (d *Document) setInstallMessage(raw any) error {
	if raw == nil {
		d.installMessage = ""
		return nil
	}
	if _, isList := valid.AsList(raw); isList {
		lines, err := stringList(raw, "install_message", valid.String)
		if err != nil {
			return err
		}
		d.installMessage = strings.Join(lines, "\n")
		return nil
	}
	s, err := valid.String(raw, "install_message")
	if err != nil {
		return err
	}
	d.installMessage = s
	return nil
}

func (d *Document) setExtra(raw any) error {
	if raw == nil {
		d.extra = nil
		return nil
	}
	m, err := valid.Hash(raw, "extra", nil)
	if err != nil {
		return err
	}
	d.extra = deepCopy(m).(map[string]any)
	return nil
}

// setHomepage puts a home resource at the front of resources.
func (d *Document) setHomepage(raw any) error {
	if raw == nil {
		d.resources = slices.DeleteFunc(d.resources, Resource.IsHome)
		return nil
	}
	uri, err := valid.URI(raw, "homepage")
	if err != nil {
		return err
	}
	return d.SetHomepage(uri)
}

// setLicense records the primary license and applies it to every copyright
// that does not name one.
func (d *Document) setLicense(raw any) error {
	if raw == nil {
		d.license = ""
		return nil
	}
	s, err := valid.Oneline(raw, "license")
	if err != nil {
		return err
	}
	d.license = strings.TrimSpace(s)
	for i := range d.copyrights {
		if d.copyrights[i].License == "" {
			d.copyrights[i].License = d.license
		}
	}
	return nil
}

func parseItems[T any](raw any, field string, parse func(any, string) (T, error), singleKeys ...string) ([]T, error) {
	items, err := itemList(raw, field, singleKeys...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := parse(item, valid.Element(field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Capitalize upper-cases the first letter of s and lower-cases the rest, the
// way a title is derived from a package name.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// -- Typed accessors --------------------------------------------------------

// Type returns the document type.
func (d *Document) Type() string { return d.typ }

// Sources returns the recorded source paths.
func (d *Document) Sources() []string { return slices.Clone(d.sources) }

// Name returns the package name.
func (d *Document) Name() string { return d.name }

// Title returns the display title.
func (d *Document) Title() string { return d.title }

// Version returns the version and whether one is set.
func (d *Document) Version() (Version, bool) {
	if d.version == nil {
		return Version{}, false
	}
	return *d.version, true
}

func (d *Document) Codename() string { return d.codename }

// Date returns the release date, zero when unset.
func (d *Document) Date() time.Time { return d.date }

// Created returns the project creation date, zero when unset.
func (d *Document) Created() time.Time { return d.created }

func (d *Document) Summary() string { return d.summary }

func (d *Document) Description() string { return d.description }

func (d *Document) Authors() []Author { return cloneAuthors(d.authors) }

func (d *Document) Organizations() []Author { return cloneAuthors(d.organizations) }

func (d *Document) Requirements() []Requirement {
	out := make([]Requirement, len(d.requirements))
	for i, r := range d.requirements {
		out[i] = r.clone()
	}
	return out
}

func (d *Document) Conflicts() []Conflict {
	out := make([]Conflict, len(d.conflicts))
	for i, c := range d.conflicts {
		out[i] = Conflict{Name: c.Name, Constraints: slices.Clone(c.Constraints)}
	}
	return out
}

func (d *Document) Alternatives() []string { return slices.Clone(d.alternatives) }

func (d *Document) Categories() []string { return slices.Clone(d.categories) }

func (d *Document) Resources() []Resource { return slices.Clone(d.resources) }

func (d *Document) Repositories() []Repository { return slices.Clone(d.repositories) }

func (d *Document) Copyrights() []Copyright { return slices.Clone(d.copyrights) }

// Customs returns the names of fields accepted as custom values.
func (d *Document) Customs() []string { return slices.Clone(d.customs) }

func (d *Document) Paths() map[string][]string { return clonePaths(d.paths) }

// LoadPath returns the library paths (paths["lib"]).
func (d *Document) LoadPath() []string { return slices.Clone(d.paths[LibPath]) }

func (d *Document) Engines() []string { return slices.Clone(d.engines) }

func (d *Document) Platforms() []string { return slices.Clone(d.platforms) }

func (d *Document) Suite() string { return d.suite }

func (d *Document) Namespace() string { return d.namespace }

func (d *Document) WebCVS() string { return d.webcvs }

func (d *Document) InstallMessage() string { return d.installMessage }

// Extra returns developer-defined metadata.
func (d *Document) Extra() map[string]any {
	if d.extra == nil {
		return nil
	}
	return deepCopy(d.extra).(map[string]any)
}

// CustomFields returns the names of custom fields that hold a value, sorted.
func (d *Document) CustomFields() []string {
	return slices.Sorted(maps.Keys(d.custom))
}

func cloneAuthors(in []Author) []Author {
	out := make([]Author, len(in))
	for i, a := range in {
		a.Roles = slices.Clone(a.Roles)
		out[i] = a
	}
	return out
}

// -- Computed ---------------------------------------------------------------

// License returns the primary license: the one set explicitly, otherwise the
// license of the first copyright that names one.
func (d *Document) License() string {
	if d.license != "" {
		return d.license
	}
	for _, c := range d.copyrights {
		if c.License != "" {
			return c.License
		}
	}
	return ""
}

// Copyright returns every copyright statement, one per line.
func (d *Document) Copyright() string {
	lines := make([]string, len(d.copyrights))
	for i, c := range d.copyrights {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// Email returns the email of the first author that has one.
func (d *Document) Email() string {
	for _, a := range d.authors {
		if a.Email != "" {
			return a.Email
		}
	}
	return ""
}

// Homepage returns the URI of the first home resource.
func (d *Document) Homepage() string {
	for _, r := range d.resources {
		if r.IsHome() {
			return r.URI
		}
	}
	return ""
}

// SetHomepage puts a home resource for uri at the front of resources.
func (d *Document) SetHomepage(uri string) error {
	if _, err := valid.URI(uri, "homepage"); err != nil {
		return err
	}
	home := Resource{URI: uri, Type: ResourceHome, Label: "homepage"}
	d.resources = slices.Insert(d.resources, 0, home)
	return nil
}

// RuntimeRequirements returns the requirements needed at run time.
func (d *Document) RuntimeRequirements() []Requirement {
	return slices.DeleteFunc(d.Requirements(), func(r Requirement) bool { return !r.Runtime() })
}

// DevelopmentRequirements returns the requirements only needed for development.
func (d *Document) DevelopmentRequirements() []Requirement {
	return slices.DeleteFunc(d.Requirements(), Requirement.Runtime)
}

// DuplicateAuthors returns authors listed more than once.
func (d *Document) DuplicateAuthors() []Author {
	var dups []Author
	for i, a := range d.authors {
		for _, b := range d.authors[:i] {
			if a.Equal(b) {
				dups = append(dups, a)
				break
			}
		}
	}
	return dups
}

// -- Utility ----------------------------------------------------------------

// AddRequirement appends a requirement given as name plus details (a
// constraint string or mapping).
func (d *Document) AddRequirement(name string, details any) error {
	r, err := parseRequirement([]any{name, details}, valid.Element("requirements", len(d.requirements)))
	if err != nil {
		return err
	}
	d.requirements = append(d.requirements, r)
	return nil
}

// AddConflict appends a conflict given as name plus a constraint string.
func (d *Document) AddConflict(name string, details any) error {
	c, err := parseConflict([]any{name, details}, valid.Element("conflicts", len(d.conflicts)))
	if err != nil {
		return err
	}
	d.conflicts = append(d.conflicts, c)
	return nil
}

// AddAlternative appends an alternative package name.
func (d *Document) AddAlternative(name string) error {
	s, err := valid.Oneline(name, valid.Element("alternatives", len(d.alternatives)))
	if err != nil {
		return err
	}
	d.alternatives = append(d.alternatives, s)
	return nil
}

// AddRepository appends a repository; an empty scm is inferred from the uri.
func (d *Document) AddRepository(id, uri, scm string) error {
	m := map[string]any{"id": id, "uri": uri}
	if scm != "" {
		m["scm"] = scm
	}
	r, err := parseRepository(m, valid.Element("repositories", len(d.repositories)))
	if err != nil {
		return err
	}
	d.repositories = append(d.repositories, r)
	return nil
}

// AddSource records a source path unless it is already recorded.
func (d *Document) AddSource(path string) error {
	s, err := valid.Oneline(path, valid.Element("sources", len(d.sources)))
	if err != nil {
		return err
	}
	if !slices.Contains(d.sources, s) {
		d.sources = append(d.sources, s)
	}
	return nil
}

// -- Canonical form ---------------------------------------------------------

// FieldOrder returns the keys of the canonical form in output order: schema
// fields followed by set custom fields.
func (d *Document) FieldOrder() []string {
	return append(Fields(), d.CustomFields()...)
}

// Canonical renders the document as a mapping of every schema field (unset
// scalars are nil) plus set custom fields. date defaults to today.
func (d *Document) Canonical() map[string]any {
	return d.CanonicalAt(time.Now())
}

// CanonicalAt is Canonical with an explicit "now" for the date default.
func (d *Document) CanonicalAt(now time.Time) map[string]any {
	out := make(map[string]any, len(attributes)+len(d.custom))
	for _, a := range attributes {
		out[a.Name] = a.canonical(d, now)
	}
	for k, v := range d.custom {
		out[k] = deepCopy(v)
	}
	return out
}

// String renders "name version".
func (d *Document) String() string {
	if v, ok := d.Version(); ok {
		return fmt.Sprintf("%s %s", d.name, v)
	}
	return d.name
}
