// Package handler wires HTTP routes to the bot services.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okatkov/tgsage/internal/handler/webhook"
)

// NewRouter builds the HTTP surface: the Telegram webhook plus a
// health probe.
func NewRouter(webhookHandler *webhook.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	webhookHandler.RegisterRoutes(r)

	return r
}
