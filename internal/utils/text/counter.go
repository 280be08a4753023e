// Package text provides small helpers for turning feed markup into plain,
// bounded text suitable for snippets and scoring prompts.
package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Truncate shortens text to at most max runes, appending "…" when it cuts.
// A non-positive max returns the text unchanged.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// CollapseSpace replaces every run of whitespace with a single space and trims the ends.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// StripHTML extracts the visible text of an HTML fragment.
// Feeds frequently embed markup in description fields; plain input passes through.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return CollapseSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseSpace(fragment)
	}
	doc.Find("script, style").Remove()
	return CollapseSpace(doc.Text())
}
