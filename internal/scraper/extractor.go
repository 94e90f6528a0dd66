package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Listing is the raw candidate an extractor pulls from a page. PriceText is
// unparsed and may be empty when the page exposed no recognizable price.
type Listing struct {
	Name      string
	PriceText string
	ImageURL  string
	Currency  string
}

// Extractor produces a candidate listing from a parsed product page.
type Extractor interface {
	// CanHandle reports whether this extractor knows the site at host.
	// host is already lowercased.
	CanHandle(host string) bool
	Extract(doc *goquery.Document, url string) Listing
}

// Registry holds the known extractors in precedence order: site-specific
// extractors first, the generic catch-all last.
type Registry struct {
	extractors []Extractor
}

// NewRegistry returns a registry with all built-in extractors.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			AmazonExtractor{},
			EbayExtractor{},
			GenericExtractor{},
		},
	}
}

// ForHost returns the first extractor claiming host. The generic extractor
// claims everything, so a match always exists.
func (r *Registry) ForHost(host string) Extractor {
	host = strings.ToLower(host)
	for _, e := range r.extractors {
		if e.CanHandle(host) {
			return e
		}
	}
	return GenericExtractor{}
}
