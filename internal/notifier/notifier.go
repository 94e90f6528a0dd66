package notifier

import (
	"context"
	"fmt"
	"time"

	"pricehawk/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const pushTitle = "Price Drop Alert!"

// Store is the slice of the database the notifier needs.
type Store interface {
	CreateNotification(productID, message string, oldPrice, newPrice *float64) error
	GetProduct(id string) (*models.Product, error)
}

// pushMessage is the Expo push API request body.
type pushMessage struct {
	To       string         `json:"to"`
	Sound    string         `json:"sound"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data"`
	Priority string         `json:"priority"`
}

// Notifier records price events and delivers the urgent ones to the user's
// device through an Expo-style push endpoint.
type Notifier struct {
	store   Store
	client  *resty.Client
	pushURL string
	logger  zerolog.Logger
}

// New returns a Notifier that posts push messages to pushURL.
func New(store Store, pushURL string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		store:   store,
		client:  resty.New().SetTimeout(10 * time.Second),
		pushURL: pushURL,
		logger:  logger,
	}
}

// Notify persists an unread notification for the product and, when pushToken
// is non-empty, sends a push alert to it. Push delivery is best effort: a
// delivery failure is logged and never undoes the stored notification.
func (n *Notifier) Notify(ctx context.Context, productID, message string, oldPrice, newPrice *float64, pushToken string) error {
	if err := n.store.CreateNotification(productID, message, oldPrice, newPrice); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if pushToken == "" {
		return nil
	}

	name := "Product"
	if p, err := n.store.GetProduct(productID); err == nil {
		name = p.Name
	}
	n.sendPush(ctx, pushToken, pushTitle, pushBody(name, oldPrice, newPrice), map[string]any{
		"productId": productID,
	})
	return nil
}

func pushBody(name string, oldPrice, newPrice *float64) string {
	switch {
	case oldPrice != nil && newPrice != nil:
		return fmt.Sprintf("%s: $%.2f -> $%.2f", name, *oldPrice, *newPrice)
	case newPrice != nil:
		return fmt.Sprintf("%s: $%.2f", name, *newPrice)
	default:
		return name
	}
}

func (n *Notifier) sendPush(ctx context.Context, token, title, body string, data map[string]any) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(pushMessage{
			To:       token,
			Sound:    "default",
			Title:    title,
			Body:     body,
			Data:     data,
			Priority: "high",
		}).
		Post(n.pushURL)
	if err != nil {
		n.logger.Error().Err(err).Msg("push notification failed")
		return
	}
	if resp.IsError() {
		n.logger.Error().Str("status", resp.Status()).Msg("push notification rejected")
	}
}
