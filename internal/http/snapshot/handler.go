// Package snapshot serves full-state export, import and reset. These are
// the disaster-recovery endpoints: export downloads everything as one JSON
// document, import replaces everything except user accounts, and clear
// wipes the business data behind a password confirmation.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sbenali/autostock/internal/auth"
	"github.com/sbenali/autostock/internal/state"
)

type Handler struct {
	store   *state.Store
	authSvc *auth.Service
}

func NewHandler(store *state.Store, authSvc *auth.Service) *Handler {
	return &Handler{store: store, authSvc: authSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importSnapshot)
	r.Post("/clear", h.clear)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"autostock-%s.json\"", time.Now().Format(time.DateOnly)))

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Error("failed to encode snapshot", "error", err)
	}
}

func (h *Handler) importSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap state.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, "invalid snapshot: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.ImportAll(r.Context(), &snap); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type clearRequest struct {
	Password string `json:"password"`
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.authSvc.VerifyPassword(r.Context(), claims.UserID, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "password confirmation failed", http.StatusForbidden)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if err := h.store.ClearAll(r.Context()); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
