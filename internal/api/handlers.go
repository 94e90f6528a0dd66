package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pricehawk/internal/database"
	"pricehawk/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.db.ListProducts()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't list products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	h.respond(w, http.StatusOK, products)
}

type historyEntry struct {
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.db.GetProduct(chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't load product")
		return
	}

	samples, err := h.db.GetPriceHistory(product.ID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't load price history")
		return
	}

	h.respond(w, http.StatusOK, struct {
		models.Product
		History []historyEntry `json:"history"`
	}{
		Product: *product,
		History: lo.Map(samples, func(s models.PriceSample, _ int) historyEntry {
			return historyEntry{Price: s.Price, RecordedAt: s.RecordedAt}
		}),
	})
}

type addProductRequest struct {
	URL         string   `json:"url"`
	TargetPrice *float64 `json:"target_price"`
	Name        string   `json:"name"`
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" || req.TargetPrice == nil {
		h.respondError(w, http.StatusBadRequest, "url and target_price are required")
		return
	}

	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		URL:         req.URL,
		TargetPrice: *req.TargetPrice,
		Currency:    "USD",
	}

	// Pre-populate from a first scrape; the product is still created when the
	// scrape fails so the scheduled sweep can pick it up later.
	if result, err := h.scraper.Scrape(r.Context(), req.URL); err == nil {
		if product.Name == "" {
			product.Name = result.Name
		}
		product.ImageURL = result.ImageURL
		product.CurrentPrice = result.Price
		if result.Currency != "" {
			product.Currency = result.Currency
		}
	} else {
		h.logger.Warn().Err(err).Str("url", req.URL).Msg("initial scrape failed")
	}
	if product.Name == "" {
		product.Name = "Unknown Product"
	}

	if err := h.db.CreateProduct(product); err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't create product")
		return
	}
	if product.CurrentPrice != nil {
		if err := h.db.AddPriceSample(product.ID, *product.CurrentPrice); err != nil {
			h.logger.Error().Err(err).Str("product_id", product.ID).Msg("can't record initial price sample")
		}
	}

	created, err := h.db.GetProduct(product.ID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't load created product")
		return
	}
	h.respond(w, http.StatusCreated, created)
}

type updateProductRequest struct {
	TargetPrice *float64 `json:"target_price"`
	IsActive    *bool    `json:"is_active"`
	Name        *string  `json:"name"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	err := h.db.UpdateProduct(id, req.TargetPrice, req.IsActive, req.Name)
	if errors.Is(err, database.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't update product")
		return
	}

	product, err := h.db.GetProduct(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't load product")
		return
	}
	h.respond(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteProduct(chi.URLParam(r, "id")); err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't delete product")
		return
	}
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) checkProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.db.GetProduct(chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't load product")
		return
	}

	result, err := h.monitor.CheckProduct(r.Context(), *product)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := h.db.GetProduct(product.ID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't load product")
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"price":   result.Price,
		"product": updated,
	})
}

func (h *Handler) scrapePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		h.respond(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success":   true,
		"name":      result.Name,
		"price":     result.Price,
		"image_url": result.ImageURL,
		"currency":  result.Currency,
	})
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.db.ListNotifications()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't list notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	h.respond(w, http.StatusOK, notifications)
}

func (h *Handler) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs json.RawMessage `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// ids is either the string "all" or an array of notification ids.
	if bytes.Equal(bytes.TrimSpace(req.IDs), []byte(`"all"`)) {
		if err := h.db.MarkAllNotificationsRead(); err != nil {
			h.respondError(w, http.StatusInternalServerError, "can't mark notifications read")
			return
		}
	} else {
		var ids []int64
		if err := json.Unmarshal(req.IDs, &ids); err != nil {
			h.respondError(w, http.StatusBadRequest, "ids must be an array or \"all\"")
			return
		}
		if err := h.db.MarkNotificationsRead(ids); err != nil {
			h.respondError(w, http.StatusInternalServerError, "can't mark notifications read")
			return
		}
	}
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) registerPushToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		h.respondError(w, http.StatusBadRequest, "token is required")
		return
	}
	if err := h.db.SavePushToken(req.Token); err != nil {
		h.respondError(w, http.StatusInternalServerError, "can't save push token")
		return
	}
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) runCheck(w http.ResponseWriter, r *http.Request) {
	h.monitor.RunCycle(r.Context())
	h.respond(w, http.StatusOK, map[string]any{"success": true, "message": "Price check complete"})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
