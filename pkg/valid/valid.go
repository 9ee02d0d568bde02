// SPDX-License-Identifier: MPL-2.0

package valid

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical rendering of date fields.
	DateLayout = "2006-01-02"
	// TimestampLayout is the optional full UTC form accepted by UTCDate.
	TimestampLayout = "2006-01-02T15:04:05Z"
)

var (
	nameRegex     = regexp.MustCompile(`^[a-z0-9_-]+$`)
	typeRegex     = regexp.MustCompile(`^[A-Za-z0-9_:/-]+$`)
	wordRegex     = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	constantRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*(?:(?:::|\.)[A-Z][A-Za-z0-9_]*)*$`)
	utcDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}:\d{2}Z)?$`)
	driveRegex    = regexp.MustCompile(`^[A-Za-z]:[\\/]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// String accepts any text, including multi-line text.
func String(raw any, field string) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", Invalid(field, raw, "must be a string")
	}
	return s, nil
}

// Oneline accepts text without embedded line breaks. Internal whitespace is
// left untouched; use NormalizeOneline when storing.
func Oneline(raw any, field string) (string, error) {
	s, err := String(raw, field)
	if err != nil {
		return "", err
	}
	if strings.ContainsAny(s, "\r\n") {
		return "", Invalid(field, raw, "must be a single line")
	}
	return s, nil
}

// NormalizeOneline collapses every whitespace run to a single space and trims
// both ends.
func NormalizeOneline(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Path accepts a relative filesystem path without traversal segments.
func Path(raw any, field string) (string, error) {
	s, err := Oneline(raw, field)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", Invalid(field, raw, "path must not be empty")
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, `\`) || driveRegex.MatchString(s) {
		return "", Invalid(field, raw, "path must be relative")
	}
	for _, seg := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return "", Invalid(field, raw, "path must not contain '..' segments")
		}
	}
	return s, nil
}

// Name accepts a lower-case package identifier: [a-z0-9_-]+.
func Name(raw any, field string) (string, error) {
	return matching(raw, field, nameRegex, "must contain only lower-case letters, digits, '_' and '-'")
}

// Type accepts a type tag: [A-Za-z0-9_:/-]+.
func Type(raw any, field string) (string, error) {
	return matching(raw, field, typeRegex, "must contain only letters, digits, '_', ':', '/' and '-'")
}

// Word accepts a bare word: [A-Za-z0-9_]+.
func Word(raw any, field string) (string, error) {
	return matching(raw, field, wordRegex, "must be a single word of letters, digits and '_'")
}

// Constant accepts a namespace-style identifier such as "Foo", "Foo::Bar" or "Foo.Bar".
func Constant(raw any, field string) (string, error) {
	return matching(raw, field, constantRegex, "must be a capitalized namespace identifier")
}

// URI accepts a well-formed absolute URI.
func URI(raw any, field string) (string, error) {
	s, err := Oneline(raw, field)
	if err != nil {
		return "", err
	}
	u, perr := url.Parse(s)
	if perr != nil {
		return "", Invalid(field, raw, "malformed URI: %v", perr)
	}
	if u.Scheme == "" {
		return "", Invalid(field, raw, "URI must be absolute")
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return "", Invalid(field, raw, "URI has no host or path")
	}
	return s, nil
}

// UTCDate accepts an ISO date "YYYY-MM-DD" or timestamp "YYYY-MM-DDTHH:MM:SSZ".
// A time.Time value (as produced by some decoders) is accepted as is.
func UTCDate(raw any, field string) (time.Time, error) {
	if t, ok := raw.(time.Time); ok {
		return t.UTC(), nil
	}
	s, err := Oneline(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	if !utcDateRegex.MatchString(s) {
		return time.Time{}, Invalid(field, raw, "must be a UTC date (YYYY-MM-DD[THH:MM:SSZ])")
	}
	layout := DateLayout
	if len(s) > len(DateLayout) {
		layout = TimestampLayout
	}
	t, perr := time.Parse(layout, s)
	if perr != nil {
		return time.Time{}, Invalid(field, raw, "not a calendar date: %v", perr)
	}
	return t, nil
}

// Array accepts a sequence, applying each to every element when non-nil.
func Array(raw any, field string, each func(elem any, field string) error) ([]any, error) {
	list, ok := AsList(raw)
	if !ok {
		return nil, Invalid(field, raw, "must be a list")
	}
	if each != nil {
		for i, elem := range list {
			if err := each(elem, Element(field, i)); err != nil {
				return nil, err
			}
		}
	}
	return list, nil
}

// Hash accepts a mapping, applying each to every entry when non-nil.
func Hash(raw any, field string, each func(key string, value any, field string) error) (map[string]any, error) {
	m, ok := AsHash(raw)
	if !ok {
		return nil, Invalid(field, raw, "must be a mapping")
	}
	if each != nil {
		for _, k := range SortedKeys(m) {
			if err := each(k, m[k], Key(field, k)); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func matching(raw any, field string, re *regexp.Regexp, reason string) (string, error) {
	s, err := Oneline(raw, field)
	if err != nil {
		return "", err
	}
	if !re.MatchString(s) {
		return "", Invalid(field, raw, "%s", reason)
	}
	return s, nil
}

// keyString renders a decoded map key as a string. Keys are usually strings
// already; YAML may produce integers or booleans for unquoted keys.
func keyString(k any) string {
	if s, ok := k.(string); ok {
		return strings.TrimPrefix(s, ":")
	}
	return fmt.Sprint(k)
}
