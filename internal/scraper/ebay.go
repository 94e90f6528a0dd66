package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ebayName = []strategy{
		text("h1.x-item-title__mainTitle span"),
		text("h1"),
	}
	ebayPrice = []strategy{
		text(".x-price-primary .ux-textspans"),
		attr("[itemprop='price']", "content"),
		text(".display-price"),
	}
	ebayImage = []strategy{
		attr("img.ux-image-magnify__image--original", "src"),
	}
)

// EbayExtractor handles ebay.* listing pages.
type EbayExtractor struct{}

func (EbayExtractor) CanHandle(host string) bool {
	return strings.Contains(host, "ebay")
}

func (EbayExtractor) Extract(doc *goquery.Document, _ string) Listing {
	name := firstMatch(doc, ebayName)
	if name == "" {
		name = "eBay Product"
	}
	return Listing{
		Name:      name,
		PriceText: firstMatch(doc, ebayPrice),
		ImageURL:  firstMatch(doc, ebayImage),
		Currency:  "USD",
	}
}
