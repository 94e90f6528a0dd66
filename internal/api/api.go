package api

import (
	"context"
	"encoding/json"
	"net/http"

	"pricehawk/internal/database"
	"pricehawk/internal/models"
	"pricehawk/internal/scraper"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Scraper resolves a URL into a listing result.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Result, error)
}

// Monitor exposes the monitoring entry points the API can trigger on demand.
type Monitor interface {
	RunCycle(ctx context.Context)
	CheckProduct(ctx context.Context, product models.Product) (*scraper.Result, error)
}

// Handler serves the REST API.
type Handler struct {
	db      *database.DB
	scraper Scraper
	monitor Monitor
	logger  zerolog.Logger
}

// NewHandler returns the API handler.
func NewHandler(db *database.DB, sc Scraper, monitor Monitor, logger zerolog.Logger) *Handler {
	return &Handler{db: db, scraper: sc, monitor: monitor, logger: logger}
}

// Routes builds the router. The API is consumed by a mobile client, hence the
// permissive CORS policy.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Post("/products", h.addProduct)
		r.Get("/products/{id}", h.getProduct)
		r.Patch("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Post("/products/{id}/check", h.checkProduct)
		r.Post("/scrape-preview", h.scrapePreview)
		r.Get("/notifications", h.listNotifications)
		r.Patch("/notifications/read", h.markNotificationsRead)
		r.Post("/register-push-token", h.registerPushToken)
		r.Post("/run-check", h.runCheck)
		r.Get("/health", h.health)
	})
	return r
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("can't write response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respond(w, status, map[string]string{"error": message})
}
