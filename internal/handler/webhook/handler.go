// Package webhook receives Telegram Bot API updates over HTTP.
package webhook

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/okatkov/tgsage/internal/service/dispatch"
	"github.com/okatkov/tgsage/internal/telegram"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Handler decodes webhook updates and hands them to the dispatcher.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	secret     string

	inflight sync.WaitGroup
}

// New creates the webhook handler. An empty secret disables header
// verification.
func New(dispatcher *dispatch.Dispatcher, secret string) *Handler {
	return &Handler{dispatcher: dispatcher, secret: secret}
}

// RegisterRoutes mounts the webhook endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleUpdate)
}

// Wait blocks until detached update handling finishes. Called on
// shutdown before the dispatcher drains its streaming jobs.
func (h *Handler) Wait() {
	h.inflight.Wait()
}

// handleUpdate acknowledges the update immediately and processes it
// detached: Telegram redelivers updates whose webhook call times out,
// and a slow provider must not trigger that.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretHeader) != h.secret {
		respondError(w, http.StatusUnauthorized, "bad secret token")
		return
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("[webhook] malformed update: %v", err)
		respondError(w, http.StatusBadRequest, "malformed update")
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[webhook] update %d panicked: %v", update.UpdateID, rec)
			}
		}()
		h.dispatcher.HandleUpdate(ctx, update)
	}()

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[webhook] encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
