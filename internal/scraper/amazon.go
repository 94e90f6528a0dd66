package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Amazon renders different price blocks per product category and A/B bucket,
// so the price chain covers the layouts seen in the wild.
var (
	amazonName = []strategy{
		text("#productTitle"),
		text("h1.a-size-large"),
	}
	amazonPrice = []strategy{
		text(".a-price .a-offscreen"),
		text("#priceblock_ourprice"),
		text("#priceblock_dealprice"),
		text(".a-price-whole"),
		text("#price_inside_buybox"),
	}
	amazonImage = []strategy{
		attr("#landingImage", "src"),
		attr("#imgBlkFront", "src"),
	}
)

// AmazonExtractor handles amazon.* product pages.
type AmazonExtractor struct{}

func (AmazonExtractor) CanHandle(host string) bool {
	return strings.Contains(host, "amazon")
}

func (AmazonExtractor) Extract(doc *goquery.Document, _ string) Listing {
	name := firstMatch(doc, amazonName)
	if name == "" {
		name = "Amazon Product"
	}
	return Listing{
		Name:      name,
		PriceText: firstMatch(doc, amazonPrice),
		ImageURL:  firstMatch(doc, amazonImage),
		Currency:  "USD",
	}
}
