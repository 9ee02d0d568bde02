// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dotindex/dotindex/pkg/metadata"
)

var (
	htmlExtensions = []string{".html", ".htm"}

	whitespaceRegex  = regexp.MustCompile(`\s+`)
	nameCharRegex    = regexp.MustCompile(`[^a-z0-9_-]`)
	mailtoRegex      = regexp.MustCompile(`(?i)^mailto:`)
	licenseWordRegex = regexp.MustCompile(`(?i)\s*license$`)

	// developmentGroups mark a requirement scraped from markup as a
	// development requirement.
	developmentGroups = []string{"test", "build", "document", "development"}
)

// HTMLAdapter scrapes metadata from markup annotated with microformat-style
// classes (".iname", ".iversion", ".iauthor", ...).
//
// Singular fields take the first matching node. Repeatable fields take every
// matching node. A title derived from the name, or a name derived from the
// title, is only used when neither the markup nor an earlier source sets the
// field explicitly.
type HTMLAdapter struct{}

// Name implements Adapter.
func (HTMLAdapter) Name() string { return "html" }

// TryImport implements Adapter.
func (HTMLAdapter) TryImport(src Source, prior Prior) (map[string]any, bool, error) {
	ok, err := src.isFile(htmlExtensions...)
	if err != nil || !ok {
		return nil, false, err
	}
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, false, &UnsupportedImportError{Source: src.Path, Format: "html", Err: err}
	}
	return scrapeHTML(goquery.NewDocumentFromNode(root), prior), true, nil
}

func scrapeHTML(doc *goquery.Document, prior Prior) map[string]any {
	data := map[string]any{}

	for _, field := range []string{"version", "summary", "description", "created"} {
		if text, ok := firstText(doc.Selection, ".i"+field); ok {
			data[field] = text
		}
	}

	name, hasName := firstText(doc.Selection, ".iname")
	title, hasTitle := firstText(doc.Selection, ".ititle")
	if hasName {
		data["name"] = name
	}
	if hasTitle {
		data["title"] = title
	}
	if hasName && !hasTitle && !prior.Has("title") {
		data["title"] = metadata.Capitalize(name)
	}
	if hasTitle && !hasName && !prior.Has("name") {
		if derived := deriveName(title); derived != "" {
			data["name"] = derived
		}
	}

	if list := scrapeParties(doc, ".iauthor", ".name", ".nickname"); list != nil {
		data["authors"] = list
	}
	if list := scrapeParties(doc, ".iorg", ".name"); list != nil {
		data["organizations"] = list
	}
	if list := scrapeRequirements(doc); list != nil {
		data["requirements"] = list
	}
	if list := scrapeLinks(doc, ".iresource", "type", "label"); list != nil {
		data["resources"] = list
	}
	if list := scrapeLinks(doc, ".irepo", "id", ""); list != nil {
		data["repositories"] = list
	}
	if list := scrapeCopyrights(doc); list != nil {
		data["copyrights"] = list
	}

	var categories []any
	doc.Find(".icategory").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			categories = append(categories, text)
		}
	})
	if categories != nil {
		data["categories"] = categories
	}
	return data
}

// deriveName turns a title into a package name: lower case, whitespace runs
// become underscores, anything a name cannot hold is dropped.
func deriveName(title string) string {
	s := whitespaceRegex.ReplaceAllString(strings.ToLower(title), "_")
	return nameCharRegex.ReplaceAllString(s, "")
}

// firstText returns the trimmed text of the first node matching selector
// inside s.
func firstText(s *goquery.Selection, selector string) (string, bool) {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(found.Text()), true
}

// firstOf returns the first node inside s matching any of the selectors, in
// selector order.
func firstOf(s *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := s.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// hrefOrText prefers a link target over the node text.
func hrefOrText(s *goquery.Selection) string {
	if href, ok := s.Attr("href"); ok && href != "" {
		return strings.TrimSpace(href)
	}
	return strings.TrimSpace(s.Text())
}

// scrapeParties collects authors or organizations. Entries without a name
// are skipped.
func scrapeParties(doc *goquery.Document, class string, nameSelectors ...string) []any {
	var out []any
	doc.Find(class).Each(func(_ int, node *goquery.Selection) {
		n := firstOf(node, nameSelectors...)
		if n == nil {
			return
		}
		entry := map[string]any{"name": strings.TrimSpace(n.Text())}
		if e := firstOf(node, ".email"); e != nil {
			entry["email"] = mailtoRegex.ReplaceAllString(hrefOrText(e), "")
		}
		if w := firstOf(node, ".website", ".uri", ".url"); w != nil {
			entry["website"] = hrefOrText(w)
		}
		out = append(out, entry)
	})
	return out
}

func scrapeRequirements(doc *goquery.Document) []any {
	var out []any
	doc.Find(".irequirement").Each(func(_ int, node *goquery.Selection) {
		name, ok := firstText(node, ".name")
		if !ok || name == "" {
			return
		}
		entry := map[string]any{"name": name}
		if v, ok := firstText(node, ".version"); ok && v != "" {
			entry["version"] = v
		}
		if node.Find(".optional").Length() > 0 {
			entry["optional"] = true
		}
		if g := firstOf(node, ".groups", ".group"); g != nil {
			text := strings.TrimSpace(g.Text())
			text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "("), ")"))
			groups := strings.Fields(text)
			if len(groups) > 0 {
				entry["groups"] = stringsToList(groups)
			}
			if slices.ContainsFunc(groups, func(g string) bool { return slices.Contains(developmentGroups, g) }) {
				entry["development"] = true
			}
		}
		out = append(out, entry)
	})
	return out
}

// scrapeLinks collects anchors: the href is the URI, the name or title
// attribute fills kindKey and the link text fills textKey.
func scrapeLinks(doc *goquery.Document, class, kindKey, textKey string) []any {
	var out []any
	doc.Find(class).Each(func(_ int, node *goquery.Selection) {
		href, ok := node.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		entry := map[string]any{"uri": strings.TrimSpace(href)}
		kind, ok := node.Attr("name")
		if !ok {
			kind, ok = node.Attr("title")
		}
		if ok && kind != "" {
			entry[kindKey] = kind
		}
		if text := strings.TrimSpace(node.Text()); textKey != "" && text != "" {
			entry[textKey] = text
		}
		out = append(out, entry)
	})
	return out
}

// scrapeCopyrights collects copyright notices. Notices without a holder are
// skipped.
func scrapeCopyrights(doc *goquery.Document) []any {
	var out []any
	doc.Find(".icopyright").Each(func(_ int, node *goquery.Selection) {
		holder, ok := firstText(node, ".holder")
		if !ok || holder == "" {
			return
		}
		entry := map[string]any{"holder": holder}
		if year, ok := firstText(node, ".year"); ok && year != "" {
			entry["year"] = year
		}
		if license, ok := firstText(node, ".license"); ok {
			if license = strings.TrimSpace(licenseWordRegex.ReplaceAllString(license, "")); license != "" {
				entry["license"] = license
			}
		}
		out = append(out, entry)
	})
	return out
}

func stringsToList(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
