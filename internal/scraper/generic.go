package scraper

import "github.com/PuerkitoBio/goquery"

// The generic extractor layers three approaches: structured metadata
// (Open Graph, itemprop microdata) when the site publishes it, then common
// price class/id patterns guarded by the price-indicator check, then the
// first heading as a last-resort name.
var (
	genericName = []strategy{
		attr("meta[property='og:title']", "content"),
		text("[itemprop='name']"),
		text("h1"),
	}
	genericStructuredPrice = []strategy{
		attr("[itemprop='price']", "content"),
		text("[itemprop='price']"),
		attr("meta[property='product:price:amount']", "content"),
	}
	genericCommonPrice = []strategy{
		text(".price"),
		text(".product-price"),
		text(".sale-price"),
		text("#price"),
		text("[class*='price']"),
		text("[id*='price']"),
		text(".offer-price"),
		text(".final-price"),
	}
	genericImage = []strategy{
		attr("meta[property='og:image']", "content"),
	}
)

// GenericExtractor is the catch-all for sites without a dedicated extractor.
type GenericExtractor struct{}

func (GenericExtractor) CanHandle(string) bool { return true }

func (GenericExtractor) Extract(doc *goquery.Document, _ string) Listing {
	name := firstMatch(doc, genericName)
	if name == "" {
		name = "Unknown Product"
	}

	priceText := firstMatch(doc, genericStructuredPrice)
	if priceText == "" {
		priceText = firstPriceMatch(doc, genericCommonPrice)
	}

	return Listing{
		Name:      name,
		PriceText: priceText,
		ImageURL:  firstMatch(doc, genericImage),
		Currency:  "USD",
	}
}
