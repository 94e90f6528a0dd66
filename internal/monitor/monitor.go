package monitor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"pricehawk/internal/models"
	"pricehawk/internal/scraper"

	"github.com/rs/zerolog"
)

// Store is the product and price state the monitor reads and writes.
type Store interface {
	GetActiveProducts() ([]models.Product, error)
	UpdateProductPrice(id string, price float64) error
	AddPriceSample(productID string, price float64) error
	LatestPushToken() (string, error)
}

// Scraper resolves a product URL into a listing result.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Result, error)
}

// Notifier records a price event and optionally pushes it to a device.
type Notifier interface {
	Notify(ctx context.Context, productID, message string, oldPrice, newPrice *float64, pushToken string) error
}

// Monitor drives the periodic price sweep over all active tracked products.
type Monitor struct {
	store    Store
	scraper  Scraper
	notifier Notifier
	delay    time.Duration
	logger   zerolog.Logger
	running  atomic.Bool
}

// New returns a Monitor. delay is the pause between consecutive product
// fetches within one sweep.
func New(store Store, sc Scraper, notifier Notifier, delay time.Duration, logger zerolog.Logger) *Monitor {
	return &Monitor{
		store:    store,
		scraper:  sc,
		notifier: notifier,
		delay:    delay,
		logger:   logger,
	}
}

// RunCycle sweeps every active product once: scrape, record the observed
// price, and evaluate the drop rule. The scheduled tick and the manual
// trigger share this entry point; when a sweep is already in flight a second
// invocation logs and returns without doing anything. The sweep itself never
// fails: per-product errors are logged and the loop moves on.
func (m *Monitor) RunCycle(ctx context.Context) {
	if !m.running.CompareAndSwap(false, true) {
		m.logger.Warn().Msg("price check already running, skipping trigger")
		return
	}
	defer m.running.Store(false)

	products, err := m.store.GetActiveProducts()
	if err != nil {
		m.logger.Error().Err(err).Msg("can't load active products")
		return
	}
	pushToken, err := m.store.LatestPushToken()
	if err != nil {
		m.logger.Error().Err(err).Msg("can't load push token")
	}

	m.logger.Info().Int("products", len(products)).Msg("price check started")
	for i, product := range products {
		// Products are fetched one at a time with a pause in between; bursty
		// traffic is what trips anti-scraping defenses.
		if i > 0 && m.delay > 0 {
			time.Sleep(m.delay)
		}
		m.checkProduct(ctx, product, pushToken)
	}
	m.logger.Info().Msg("price check complete")
}

func (m *Monitor) checkProduct(ctx context.Context, product models.Product, pushToken string) {
	result, err := m.scraper.Scrape(ctx, product.URL)
	if err != nil {
		m.logger.Warn().Err(err).Str("product_id", product.ID).Msg("scrape failed")
		return
	}
	if result.Price == nil {
		// Fetched but no recognizable price. Stored state stays untouched so
		// a transient layout change can't corrupt history or fake a drop.
		m.logger.Warn().Str("product_id", product.ID).Str("url", product.URL).Msg("no price found on page")
		return
	}

	newPrice := *result.Price
	oldPrice := product.CurrentPrice

	if err := m.store.UpdateProductPrice(product.ID, newPrice); err != nil {
		m.logger.Error().Err(err).Str("product_id", product.ID).Msg("can't update product price")
		return
	}
	if err := m.store.AddPriceSample(product.ID, newPrice); err != nil {
		m.logger.Error().Err(err).Str("product_id", product.ID).Msg("can't record price sample")
		return
	}

	// Two-branch drop rule, first match wins. Only the target-reached branch
	// pushes; minor fluctuations are recorded but kept out of the user's
	// notification tray on their device.
	switch {
	case newPrice <= product.TargetPrice:
		message := fmt.Sprintf("Price dropped to $%.2f! Your target was $%.2f.", newPrice, product.TargetPrice)
		if err := m.notifier.Notify(ctx, product.ID, message, oldPrice, &newPrice, pushToken); err != nil {
			m.logger.Error().Err(err).Str("product_id", product.ID).Msg("can't create notification")
		}
	case oldPrice != nil && newPrice < *oldPrice:
		message := fmt.Sprintf("Price dropped from $%.2f to $%.2f.", *oldPrice, newPrice)
		if err := m.notifier.Notify(ctx, product.ID, message, oldPrice, &newPrice, ""); err != nil {
			m.logger.Error().Err(err).Str("product_id", product.ID).Msg("can't create notification")
		}
	}
}

// CheckProduct scrapes one product on demand and records the result the same
// way the sweep does. Unlike the sweep, the failure reason is returned so the
// caller can surface why the URL did not resolve. When the page yields no
// price, stored state is left untouched and the result is returned as is.
func (m *Monitor) CheckProduct(ctx context.Context, product models.Product) (*scraper.Result, error) {
	result, err := m.scraper.Scrape(ctx, product.URL)
	if err != nil {
		return nil, err
	}
	if result.Price != nil {
		if err := m.store.UpdateProductPrice(product.ID, *result.Price); err != nil {
			return nil, fmt.Errorf("update product price: %w", err)
		}
		if err := m.store.AddPriceSample(product.ID, *result.Price); err != nil {
			return nil, fmt.Errorf("record price sample: %w", err)
		}
	}
	return result, nil
}
