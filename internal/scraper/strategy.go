package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// A strategy is one attempt at pulling a fragment of listing data out of a
// parsed page: either the text of the first element matching a selector, or
// one of its attributes. Extractors evaluate ordered chains of strategies and
// keep the first non-empty result, so chains go most-specific-layout-first,
// most-common-fallback-last.
type strategy struct {
	selector string
	attr     string // when set, read this attribute instead of the element text
}

func text(selector string) strategy {
	return strategy{selector: selector}
}

func attr(selector, name string) strategy {
	return strategy{selector: selector, attr: name}
}

func (s strategy) lookup(doc *goquery.Document) string {
	el := doc.Find(s.selector).First()
	if el.Length() == 0 {
		return ""
	}
	if s.attr != "" {
		return strings.TrimSpace(el.AttrOr(s.attr, ""))
	}
	return strings.TrimSpace(el.Text())
}

// firstMatch returns the result of the first strategy in chain that yields
// non-empty text, or "".
func firstMatch(doc *goquery.Document, chain []strategy) string {
	for _, s := range chain {
		if v := s.lookup(doc); v != "" {
			return v
		}
	}
	return ""
}

// priceIndicators are the characters that mark text as actually price-bearing.
const priceIndicators = "0123456789.,$€£"

// firstPriceMatch is firstMatch restricted to candidates containing at least
// one digit or currency symbol. Broad class patterns like [class*='price']
// routinely hit decorative elements with no numeric content; those are
// skipped in favor of the next strategy.
func firstPriceMatch(doc *goquery.Document, chain []strategy) string {
	for _, s := range chain {
		if v := s.lookup(doc); v != "" && strings.ContainsAny(v, priceIndicators) {
			return v
		}
	}
	return ""
}
