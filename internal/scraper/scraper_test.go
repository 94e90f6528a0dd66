package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pricehawk/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageServer(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestScrapeSuccess(t *testing.T) {
	ts := newPageServer(t, http.StatusOK, `<html><body>
		<h1>Garden Hose</h1>
		<div class="price">$20.00</div>
	</body></html>`)

	result, err := scraper.New(5*time.Second).Scrape(context.Background(), ts.URL+"/product/1")
	require.NoError(t, err)

	assert.Equal(t, "Garden Hose", result.Name)
	require.NotNil(t, result.Price)
	assert.InDelta(t, 20.00, *result.Price, 1e-9)
	assert.Equal(t, "USD", result.Currency)
	assert.Nil(t, result.ImageURL)
}

func TestScrapeNoPriceIsNotAnError(t *testing.T) {
	ts := newPageServer(t, http.StatusOK, `<html><body><h1>Sold Out Item</h1></body></html>`)

	result, err := scraper.New(5*time.Second).Scrape(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "Sold Out Item", result.Name)
	assert.Nil(t, result.Price)
}

func TestScrapeNonSuccessStatus(t *testing.T) {
	ts := newPageServer(t, http.StatusNotFound, "not here")

	result, err := scraper.New(5*time.Second).Scrape(context.Background(), ts.URL)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestScrapeTransportFailure(t *testing.T) {
	ts := newPageServer(t, http.StatusOK, "")
	url := ts.URL
	ts.Close()

	result, err := scraper.New(time.Second).Scrape(context.Background(), url)
	assert.Error(t, err)
	assert.Nil(t, result)
}
