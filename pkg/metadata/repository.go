// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

// Repository is a source code repository of the project.
type Repository struct {
	URI string
	ID  string
	SCM string
}

// ParseRepository accepts a URI string, a mapping with uri/id/scm keys, an
// {id: uri} shorthand mapping, or an [id, uri] pair.
func ParseRepository(raw any) (Repository, error) {
	return parseRepository(raw, "repository")
}

func parseRepository(raw any, field string) (Repository, error) {
	switch x := raw.(type) {
	case Repository:
		return x, nil
	case string:
		return repositoryFromHash(map[string]any{"uri": x}, raw, field)
	}
	if id, uri, ok := pair(raw); ok {
		return repositoryFromHash(map[string]any{"id": id, "uri": uri}, raw, field)
	}
	if m, ok := valid.AsHash(raw); ok {
		if _, has := lookup(m, "uri", "url"); !has && len(m) == 1 {
			for k, v := range m {
				return repositoryFromHash(map[string]any{"id": k, "uri": v}, raw, field)
			}
		}
		return repositoryFromHash(m, raw, field)
	}
	return Repository{}, valid.Invalid(field, raw, "repository must be a URI, mapping or [id, uri] pair")
}

func repositoryFromHash(m map[string]any, raw any, field string) (Repository, error) {
	var r Repository
	var err error
	if r.URI, err = optionalOneline(m, field+".uri", "uri", "url"); err != nil {
		return Repository{}, err
	}
	if r.URI == "" {
		return Repository{}, valid.Invalid(field, raw, "repository requires a uri")
	}
	if r.ID, err = optionalOneline(m, field+".id", "id", "name"); err != nil {
		return Repository{}, err
	}
	if s, ok := m["scm"]; ok && s != nil {
		if r.SCM, err = valid.Word(s, field+".scm"); err != nil {
			return Repository{}, err
		}
	} else {
		r.SCM = inferSCM(r.URI)
	}
	return r, nil
}

func inferSCM(uri string) string {
	u := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(u, "git:"), strings.HasPrefix(u, "git@"), strings.HasSuffix(u, ".git"),
		strings.Contains(u, "github.com"), strings.Contains(u, "gitlab.com"):
		return "git"
	case strings.HasPrefix(u, "svn:"), strings.HasPrefix(u, "svn+"), strings.Contains(u, "/svn/"):
		return "svn"
	case strings.HasPrefix(u, "hg:"), strings.Contains(u, "/hg/"), strings.Contains(u, "bitbucket.org"):
		return "hg"
	default:
		return ""
	}
}

// Canonical returns the serialized mapping of the repository.
func (r Repository) Canonical() any {
	m := map[string]any{"uri": r.URI}
	if r.ID != "" {
		m["id"] = r.ID
	}
	if r.SCM != "" {
		m["scm"] = r.SCM
	}
	return m
}
