// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

var (
	emailRegex        = regexp.MustCompile(`^[^@\s<>]+@[^@\s<>]+$`)
	angleEmailRegex   = regexp.MustCompile(`<([^>]*)>`)
	bareEmailRegex    = regexp.MustCompile(`[^@\s<>()]+@[^@\s<>()]+`)
	websiteTokenRegex = regexp.MustCompile(`\(?(https?://[^\s)]+)\)?`)
)

// Author is a person or organization credited by the project.
type Author struct {
	Name    string
	Email   string
	Website string
	Roles   []string
}

// ParseAuthor accepts "Name <email> http://site", a mapping with
// name/email/website/roles keys, or a [name, details] pair where details is an
// email string or a mapping.
func ParseAuthor(raw any) (Author, error) {
	return parseAuthor(raw, "author")
}

func parseAuthor(raw any, field string) (Author, error) {
	switch x := raw.(type) {
	case Author:
		x.Roles = slices.Clone(x.Roles)
		return x, nil
	case string:
		return authorFromString(x, field)
	}
	if name, details, ok := pair(raw); ok {
		m := map[string]any{}
		switch d := details.(type) {
		case nil:
		case string:
			m["email"] = d
		default:
			dm, ok := valid.AsHash(d)
			if !ok {
				return Author{}, valid.Invalid(field, raw, "author details must be an email string or mapping")
			}
			m = dm
		}
		m["name"] = name
		return authorFromHash(m, raw, field)
	}
	if m, ok := valid.AsHash(raw); ok {
		return authorFromHash(m, raw, field)
	}
	return Author{}, valid.Invalid(field, raw, "author must be a string, mapping or [name, details] pair")
}

func authorFromString(s, field string) (Author, error) {
	if _, err := valid.Oneline(s, field); err != nil {
		return Author{}, err
	}
	m := map[string]any{}
	rest := s
	if em := angleEmailRegex.FindStringSubmatch(rest); em != nil {
		m["email"] = strings.TrimSpace(em[1])
		rest = strings.Replace(rest, em[0], " ", 1)
	} else if em := bareEmailRegex.FindString(rest); em != "" {
		m["email"] = em
		rest = strings.Replace(rest, em, " ", 1)
	}
	if w := websiteTokenRegex.FindStringSubmatch(rest); w != nil {
		m["website"] = w[1]
		rest = strings.Replace(rest, w[0], " ", 1)
	}
	m["name"] = valid.NormalizeOneline(rest)
	return authorFromHash(m, s, field)
}

func authorFromHash(m map[string]any, raw any, field string) (Author, error) {
	var a Author
	var err error
	if a.Name, err = optionalOneline(m, field+".name", "name", "nickname"); err != nil {
		return Author{}, err
	}
	if a.Name == "" {
		return Author{}, valid.Invalid(field, raw, "author requires a name")
	}
	if a.Email, err = optionalOneline(m, field+".email", "email"); err != nil {
		return Author{}, err
	}
	a.Email = strings.TrimPrefix(a.Email, "mailto:")
	if a.Email != "" && !emailRegex.MatchString(a.Email) {
		return Author{}, valid.Invalid(field+".email", a.Email, "not an email address")
	}
	if w, ok := lookup(m, "website", "uri", "url", "homepage"); ok {
		if a.Website, err = valid.URI(w, field+".website"); err != nil {
			return Author{}, err
		}
	}
	r, _ := lookup(m, "roles", "role")
	roles, err := stringList(r, field+".roles", valid.Oneline)
	if err != nil {
		return Author{}, err
	}
	a.Roles = uniqueStrings(roles)
	return a, nil
}

// Canonical returns the serialized mapping of the author. Empty email and
// website are omitted.
func (a Author) Canonical() any {
	m := map[string]any{
		"name":  a.Name,
		"roles": stringsToAny(a.Roles),
	}
	if a.Email != "" {
		m["email"] = a.Email
	}
	if a.Website != "" {
		m["website"] = a.Website
	}
	return m
}

// String renders "Name <email>".
func (a Author) String() string {
	if a.Email == "" {
		return a.Name
	}
	return a.Name + " <" + a.Email + ">"
}

// Equal reports whether two authors carry the same details.
func (a Author) Equal(b Author) bool {
	return a.Name == b.Name && a.Email == b.Email && a.Website == b.Website && slices.Equal(a.Roles, b.Roles)
}
