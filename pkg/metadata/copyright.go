// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

var (
	copyrightPrefixRegex  = regexp.MustCompile(`(?i)^\s*(?:copyright\s*)?(?:\(c\)|©)?\s*`)
	copyrightYearRegex    = regexp.MustCompile(`^(\d{4}(?:\s*-\s*\d{4})?)\s*,?\s*`)
	copyrightLicenseRegex = regexp.MustCompile(`\s*\(([^()]+)\)\s*$`)
	yearRegex             = regexp.MustCompile(`^\d{4}(?:\s*-\s*\d{4})?$`)
)

// Copyright is one copyright holder entry. License falls back to the
// document's primary license when the entry does not name one.
type Copyright struct {
	Year    string
	Holder  string
	License string
}

// ParseCopyright accepts "Copyright (c) 2010 Holder (MIT)" style strings or a
// mapping with year/holder/license keys. defaultLicense is used when the
// entry does not carry a license.
func ParseCopyright(raw any, defaultLicense string) (Copyright, error) {
	return parseCopyright(raw, defaultLicense, "copyright")
}

func parseCopyright(raw any, defaultLicense, field string) (Copyright, error) {
	var c Copyright
	switch x := raw.(type) {
	case Copyright:
		c = x
	case string:
		parsed, err := copyrightFromString(x, field)
		if err != nil {
			return Copyright{}, err
		}
		c = parsed
	default:
		m, ok := valid.AsHash(raw)
		if !ok {
			return Copyright{}, valid.Invalid(field, raw, "copyright must be a string or mapping")
		}
		parsed, err := copyrightFromHash(m, raw, field)
		if err != nil {
			return Copyright{}, err
		}
		c = parsed
	}
	if c.License == "" {
		c.License = defaultLicense
	}
	return c, nil
}

func copyrightFromString(s, field string) (Copyright, error) {
	text, err := valid.Oneline(s, field)
	if err != nil {
		return Copyright{}, err
	}
	var c Copyright
	text = copyrightPrefixRegex.ReplaceAllString(text, "")
	if m := copyrightYearRegex.FindStringSubmatch(text); m != nil {
		c.Year = m[1]
		text = text[len(m[0]):]
	}
	if m := copyrightLicenseRegex.FindStringSubmatch(text); m != nil {
		c.License = strings.TrimSpace(m[1])
		text = text[:len(text)-len(m[0])]
	}
	c.Holder = valid.NormalizeOneline(text)
	if c.Holder == "" {
		return Copyright{}, valid.Invalid(field, s, "copyright requires a holder")
	}
	return c, nil
}

func copyrightFromHash(m map[string]any, raw any, field string) (Copyright, error) {
	var c Copyright
	var err error
	if y, ok := m["year"]; ok && y != nil {
		if n, isInt := toInt(y); isInt {
			c.Year = strconv.Itoa(n)
		} else if c.Year, err = valid.Oneline(y, field+".year"); err != nil {
			return Copyright{}, err
		}
		if !yearRegex.MatchString(c.Year) {
			return Copyright{}, valid.Invalid(field+".year", y, "year must be YYYY or YYYY-YYYY")
		}
	}
	if c.Holder, err = optionalOneline(m, field+".holder", "holder"); err != nil {
		return Copyright{}, err
	}
	if c.Holder == "" {
		return Copyright{}, valid.Invalid(field, raw, "copyright requires a holder")
	}
	if c.License, err = optionalOneline(m, field+".license", "license"); err != nil {
		return Copyright{}, err
	}
	return c, nil
}

// Canonical returns the serialized mapping of the copyright.
func (c Copyright) Canonical() any {
	m := map[string]any{"holder": c.Holder}
	if c.Year != "" {
		m["year"] = c.Year
	}
	if c.License != "" {
		m["license"] = c.License
	}
	return m
}

// String renders "Copyright (c) YEAR HOLDER (LICENSE)".
func (c Copyright) String() string {
	var b strings.Builder
	b.WriteString("Copyright (c) ")
	if c.Year != "" {
		b.WriteString(c.Year)
		b.WriteString(" ")
	}
	b.WriteString(c.Holder)
	if c.License != "" {
		b.WriteString(" (")
		b.WriteString(c.License)
		b.WriteString(")")
	}
	return b.String()
}
