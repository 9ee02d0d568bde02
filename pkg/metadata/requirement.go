// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

var (
	packageNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

	// "name [constraints] [(groups)]"
	requirementRegex = regexp.MustCompile(`^([^\s(]+)\s*([^()]*?)\s*(?:\(([^)]*)\))?$`)

	// developmentGroups mark a requirement as development-only.
	developmentGroups = []string{"test", "build", "document", "development"}
)

type (
	// Requirement is a dependency on another package.
	Requirement struct {
		Name        string
		Constraints []Constraint
		Groups      []string
		Engines     []string
		Platforms   []string
		Optional    bool
		Development bool
	}

	// Conflict names a package (and optionally versions of it) this package
	// cannot be used with.
	Conflict struct {
		Name        string
		Constraints []Constraint
	}
)

// ParseRequirement accepts "name [constraints] [(groups)]", a mapping with a
// name key, or a [name, details] pair where details is a constraint string or
// a mapping.
func ParseRequirement(raw any) (Requirement, error) {
	return parseRequirement(raw, "requirement")
}

func parseRequirement(raw any, field string) (Requirement, error) {
	switch x := raw.(type) {
	case Requirement:
		return x.clone(), nil
	case string:
		return requirementFromString(x, field)
	}
	if name, details, ok := pair(raw); ok {
		m := map[string]any{}
		switch d := details.(type) {
		case nil:
		case string:
			m["version"] = d
		default:
			dm, ok := valid.AsHash(d)
			if !ok {
				return Requirement{}, valid.Invalid(field, raw, "requirement details must be a version string or mapping")
			}
			m = dm
		}
		m["name"] = name
		return requirementFromHash(m, raw, field)
	}
	if m, ok := valid.AsHash(raw); ok {
		return requirementFromHash(m, raw, field)
	}
	return Requirement{}, valid.Invalid(field, raw, "requirement must be a string, mapping or [name, details] pair")
}

func requirementFromString(s, field string) (Requirement, error) {
	m := requirementRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Requirement{}, valid.Invalid(field, s, "requirement must look like 'name [constraints] [(groups)]'")
	}
	h := map[string]any{"name": m[1]}
	if m[2] != "" {
		h["version"] = m[2]
	}
	if m[3] != "" {
		h["groups"] = stringsToAny(strings.Fields(m[3]))
	}
	return requirementFromHash(h, s, field)
}

func requirementFromHash(m map[string]any, raw any, field string) (Requirement, error) {
	name, err := packageName(m, raw, field)
	if err != nil {
		return Requirement{}, err
	}
	r := Requirement{Name: name}
	if v, ok := lookup(m, "version", "versions"); ok {
		if r.Constraints, err = parseConstraints(v, field+".version"); err != nil {
			return Requirement{}, err
		}
	} else {
		r.Constraints = []Constraint{}
	}
	g, _ := lookup(m, "groups", "group")
	if r.Groups, err = stringList(g, field+".groups", valid.Word); err != nil {
		return Requirement{}, err
	}
	e, _ := lookup(m, "engines", "engine")
	if r.Engines, err = stringList(e, field+".engines", valid.Oneline); err != nil {
		return Requirement{}, err
	}
	p, _ := lookup(m, "platforms", "platform")
	if r.Platforms, err = stringList(p, field+".platforms", valid.Oneline); err != nil {
		return Requirement{}, err
	}
	if r.Optional, err = toBool(m["optional"], field+".optional"); err != nil {
		return Requirement{}, err
	}
	if r.Development, err = toBool(m["development"], field+".development"); err != nil {
		return Requirement{}, err
	}
	for _, g := range r.Groups {
		if slices.Contains(developmentGroups, g) {
			r.Development = true
		}
	}
	return r, nil
}

func packageName(m map[string]any, raw any, field string) (string, error) {
	v, ok := m["name"]
	if !ok || v == nil {
		return "", valid.Invalid(field, raw, "missing package name")
	}
	name, err := valid.Oneline(v, field+".name")
	if err != nil {
		return "", err
	}
	if !packageNameRegex.MatchString(name) {
		return "", valid.Invalid(field+".name", v, "not a package name")
	}
	return name, nil
}

// Runtime reports whether the requirement is needed at run time.
func (r Requirement) Runtime() bool { return !r.Development }

// Version renders the constraints as one comma-separated string.
func (r Requirement) Version() string { return JoinConstraints(r.Constraints) }

// Admits reports whether the given version of the package meets every constraint.
func (r Requirement) Admits(v Version) bool { return SatisfiesAll(r.Constraints, v) }

// Canonical returns the serialized mapping of the requirement.
func (r Requirement) Canonical() any {
	return map[string]any{
		"name":        r.Name,
		"version":     r.Version(),
		"groups":      stringsToAny(r.Groups),
		"engines":     stringsToAny(r.Engines),
		"platforms":   stringsToAny(r.Platforms),
		"optional":    r.Optional,
		"development": r.Development,
	}
}

// String renders "name constraints (groups)".
func (r Requirement) String() string {
	s := r.Name
	if v := r.Version(); v != "" {
		s += " " + v
	}
	if len(r.Groups) > 0 {
		s += " (" + strings.Join(r.Groups, " ") + ")"
	}
	return s
}

func (r Requirement) clone() Requirement {
	r.Constraints = slices.Clone(r.Constraints)
	r.Groups = slices.Clone(r.Groups)
	r.Engines = slices.Clone(r.Engines)
	r.Platforms = slices.Clone(r.Platforms)
	return r
}

// ParseConflict accepts the same shapes as ParseRequirement; only the name
// and constraints are kept.
func ParseConflict(raw any) (Conflict, error) {
	return parseConflict(raw, "conflict")
}

func parseConflict(raw any, field string) (Conflict, error) {
	if c, ok := raw.(Conflict); ok {
		return Conflict{Name: c.Name, Constraints: slices.Clone(c.Constraints)}, nil
	}
	r, err := parseRequirement(raw, field)
	if err != nil {
		return Conflict{}, err
	}
	return Conflict{Name: r.Name, Constraints: r.Constraints}, nil
}

// Version renders the constraints as one comma-separated string.
func (c Conflict) Version() string { return JoinConstraints(c.Constraints) }

// Canonical returns the serialized mapping of the conflict.
func (c Conflict) Canonical() any {
	return map[string]any{
		"name":    c.Name,
		"version": c.Version(),
	}
}
