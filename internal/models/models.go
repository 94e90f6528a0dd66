package models

import "time"

// Product is a tracked product: a URL being watched plus the price threshold
// its owner wants to be alerted at. CurrentPrice and LastChecked are nil until
// the first successful scrape.
type Product struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	ImageURL     *string    `json:"image_url"`
	CurrentPrice *float64   `json:"current_price"`
	TargetPrice  float64    `json:"target_price"`
	Currency     string     `json:"currency"`
	IsActive     bool       `json:"is_active"`
	LastChecked  *time.Time `json:"last_checked"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PriceSample is one observed price for a product. Samples are append-only;
// they are never updated once recorded.
type PriceSample struct {
	ID         int64     `json:"id"`
	ProductID  string    `json:"product_id"`
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Notification is a recorded price event for a product. OldPrice is nil when
// the product had no previously observed price. Only IsRead changes after
// creation.
type Notification struct {
	ID          int64     `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Message     string    `json:"message"`
	OldPrice    *float64  `json:"old_price"`
	NewPrice    *float64  `json:"new_price"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
