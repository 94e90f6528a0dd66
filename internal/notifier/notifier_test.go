package notifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricehawk/internal/models"
	"pricehawk/internal/notifier"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type savedNotification struct {
	productID string
	message   string
	oldPrice  *float64
	newPrice  *float64
}

type fakeStore struct {
	saved     []savedNotification
	product   *models.Product
	createErr error
}

func (s *fakeStore) CreateNotification(productID, message string, oldPrice, newPrice *float64) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.saved = append(s.saved, savedNotification{productID, message, oldPrice, newPrice})
	return nil
}

func (s *fakeStore) GetProduct(id string) (*models.Product, error) {
	if s.product == nil {
		return nil, errors.New("not found")
	}
	return s.product, nil
}

type capturedPush struct {
	To       string         `json:"to"`
	Sound    string         `json:"sound"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data"`
	Priority string         `json:"priority"`
}

func newPushServer(t *testing.T, status int, pushes *[]capturedPush) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p capturedPush
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		*pushes = append(*pushes, p)
		w.WriteHeader(status)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestNotifyPersistsWithoutPush(t *testing.T) {
	var pushes []capturedPush
	ts := newPushServer(t, http.StatusOK, &pushes)
	store := &fakeStore{}
	n := notifier.New(store, ts.URL, zerolog.Nop())

	err := n.Notify(context.Background(), "prod-1", "Price dropped from $80.00 to $60.00.",
		lo.ToPtr(80.0), lo.ToPtr(60.0), "")
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "prod-1", store.saved[0].productID)
	assert.Empty(t, pushes, "no push without a token")
}

func TestNotifySendsPush(t *testing.T) {
	var pushes []capturedPush
	ts := newPushServer(t, http.StatusOK, &pushes)
	store := &fakeStore{product: &models.Product{ID: "prod-1", Name: "Widget"}}
	n := notifier.New(store, ts.URL, zerolog.Nop())

	err := n.Notify(context.Background(), "prod-1", "Price dropped to $60.00! Your target was $65.00.",
		lo.ToPtr(80.0), lo.ToPtr(60.0), "ExponentPushToken[abc]")
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	require.Len(t, pushes, 1)
	push := pushes[0]
	assert.Equal(t, "ExponentPushToken[abc]", push.To)
	assert.Equal(t, "Price Drop Alert!", push.Title)
	assert.Equal(t, "Widget: $80.00 -> $60.00", push.Body)
	assert.Equal(t, "default", push.Sound)
	assert.Equal(t, "high", push.Priority)
	assert.Equal(t, "prod-1", push.Data["productId"])
}

func TestNotifyPushBodyWithoutOldPrice(t *testing.T) {
	var pushes []capturedPush
	ts := newPushServer(t, http.StatusOK, &pushes)
	store := &fakeStore{product: &models.Product{ID: "prod-1", Name: "Widget"}}
	n := notifier.New(store, ts.URL, zerolog.Nop())

	err := n.Notify(context.Background(), "prod-1", "Price dropped to $90.00! Your target was $100.00.",
		nil, lo.ToPtr(90.0), "tok")
	require.NoError(t, err)

	require.Len(t, pushes, 1)
	assert.Equal(t, "Widget: $90.00", pushes[0].Body)
}

func TestNotifyPushFallsBackToGenericName(t *testing.T) {
	var pushes []capturedPush
	ts := newPushServer(t, http.StatusOK, &pushes)
	store := &fakeStore{} // product lookup fails
	n := notifier.New(store, ts.URL, zerolog.Nop())

	err := n.Notify(context.Background(), "prod-1", "msg", nil, lo.ToPtr(5.0), "tok")
	require.NoError(t, err)

	require.Len(t, pushes, 1)
	assert.Equal(t, "Product: $5.00", pushes[0].Body)
}

func TestNotifyPushFailureDoesNotPropagate(t *testing.T) {
	var pushes []capturedPush
	ts := newPushServer(t, http.StatusInternalServerError, &pushes)
	store := &fakeStore{product: &models.Product{ID: "prod-1", Name: "Widget"}}
	n := notifier.New(store, ts.URL, zerolog.Nop())

	err := n.Notify(context.Background(), "prod-1", "msg", nil, lo.ToPtr(5.0), "tok")
	require.NoError(t, err, "push delivery failure must not surface")
	assert.Len(t, store.saved, 1, "the stored notification must survive a failed push")
}

func TestNotifyStoreFailureSurfaces(t *testing.T) {
	var pushes []capturedPush
	ts := newPushServer(t, http.StatusOK, &pushes)
	store := &fakeStore{createErr: errors.New("disk full")}
	n := notifier.New(store, ts.URL, zerolog.Nop())

	err := n.Notify(context.Background(), "prod-1", "msg", nil, lo.ToPtr(5.0), "tok")
	require.Error(t, err)
	assert.Empty(t, pushes, "no push when the notification was not stored")
}
