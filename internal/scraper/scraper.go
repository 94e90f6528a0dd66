package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const maxRedirects = 5

// Browser-identifying headers; the default Go user agent trips even the most
// basic bot filters. Accept-Encoding is left to the transport so gzip bodies
// are decoded transparently.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

// Result is the outcome of one successful page fetch. A nil Price means the
// page was retrieved but no usable price was found on it; callers must treat
// that as "try again next cycle", not as a fetch failure.
type Result struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	ImageURL *string  `json:"image_url"`
	Currency string   `json:"currency"`
}

// Scraper fetches product pages and runs the extractor matching the host.
type Scraper struct {
	client   *resty.Client
	registry *Registry
}

// New returns a Scraper whose fetches are bounded by timeout and follow at
// most five redirects.
func New(timeout time.Duration) *Scraper {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetHeaders(defaultHeaders)

	return &Scraper{
		client:   client,
		registry: NewRegistry(),
	}
}

// Scrape performs one fetch of rawURL and extracts a candidate listing from
// the response. Transport failures and non-success statuses are returned as
// errors; there is no retry here, a failed product is simply picked up again
// on the next cycle.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	resp, err := s.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: status %s", rawURL, resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", rawURL, err)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %s: %w", rawURL, err)
	}

	listing := s.registry.ForHost(parsed.Hostname()).Extract(doc, rawURL)

	result := &Result{
		Name:     listing.Name,
		Price:    ParsePrice(listing.PriceText),
		Currency: listing.Currency,
	}
	if listing.ImageURL != "" {
		result.ImageURL = &listing.ImageURL
	}
	return result, nil
}
