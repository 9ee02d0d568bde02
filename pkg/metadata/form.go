// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"time"

	"github.com/dotindex/dotindex/pkg/valid"
)

// Form exposes the values a file template needs. Absent values render as a
// "<fill-out FIELD>" placeholder so generated files show what is missing.
type Form struct {
	doc *Document
	now time.Time
}

// NewForm wraps d for template rendering. A nil d yields a form of
// placeholders.
func NewForm(d *Document) Form {
	if d == nil {
		d = Empty()
	}
	return Form{doc: d, now: time.Now()}
}

// Placeholder returns the placeholder text for field.
func Placeholder(field string) string {
	return "<fill-out " + field + ">"
}

func orPlaceholder(s, field string) string {
	if s == "" {
		return Placeholder(field)
	}
	return s
}

func (f Form) Name() string        { return orPlaceholder(f.doc.Name(), "name") }
func (f Form) Title() string       { return orPlaceholder(f.doc.Title(), "title") }
func (f Form) Summary() string     { return orPlaceholder(f.doc.Summary(), "summary") }
func (f Form) Description() string { return orPlaceholder(f.doc.Description(), "description") }
func (f Form) Homepage() string    { return orPlaceholder(f.doc.Homepage(), "homepage") }
func (f Form) Email() string       { return orPlaceholder(f.doc.Email(), "email") }
func (f Form) License() string     { return orPlaceholder(f.doc.License(), "license") }
func (f Form) Copyright() string   { return orPlaceholder(f.doc.Copyright(), "copyright") }

func (f Form) Version() string {
	v, ok := f.doc.Version()
	if !ok {
		return Placeholder("version")
	}
	return v.String()
}

// Date is the release date, today when unset.
func (f Form) Date() string {
	if d := f.doc.Date(); !d.IsZero() {
		return d.Format(valid.DateLayout)
	}
	return f.now.UTC().Format(valid.DateLayout)
}

// Authors returns author names, or one placeholder when there are none.
func (f Form) Authors() []string {
	authors := f.doc.Authors()
	if len(authors) == 0 {
		return []string{Placeholder("authors")}
	}
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
	}
	return names
}

// LoadPath returns the library paths.
func (f Form) LoadPath() []string {
	if p := f.doc.LoadPath(); len(p) > 0 {
		return p
	}
	return []string{"lib"}
}

// RuntimeRequirements returns the runtime requirements.
func (f Form) RuntimeRequirements() []Requirement { return f.doc.RuntimeRequirements() }

// DevelopmentRequirements returns the development requirements.
func (f Form) DevelopmentRequirements() []Requirement { return f.doc.DevelopmentRequirements() }
