package purchase

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sbenali/autostock/internal/purchase"
)

type Handler struct {
	svc *purchase.Service
}

func NewHandler(svc *purchase.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createPurchaseRequest struct {
	Date       time.Time       `json:"date"`
	SupplierID string          `json:"supplier_id"`
	Items      []purchase.Item `json:"items"`
	TotalHT    int64           `json:"total_ht"`
	AmountPaid int64           `json:"amount_paid"`
	Status     purchase.Status `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), purchase.CreateParams{
		Date:       req.Date,
		SupplierID: req.SupplierID,
		Items:      req.Items,
		TotalHT:    req.TotalHT,
		AmountPaid: req.AmountPaid,
		Status:     req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrNoItems), errors.Is(err, purchase.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(purchases); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, purchase.ErrNotFound) {
			http.Error(w, "purchase not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updatePurchaseRequest struct {
	Date       *time.Time       `json:"date,omitempty"`
	SupplierID *string          `json:"supplier_id,omitempty"`
	Items      *[]purchase.Item `json:"items,omitempty"`
	TotalHT    *int64           `json:"total_ht,omitempty"`
	AmountPaid *int64           `json:"amount_paid,omitempty"`
	Status     *purchase.Status `json:"status,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), purchase.UpdateParams{
		Date:       req.Date,
		SupplierID: req.SupplierID,
		Items:      req.Items,
		TotalHT:    req.TotalHT,
		AmountPaid: req.AmountPaid,
		Status:     req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrNotFound):
			http.Error(w, "purchase not found", http.StatusNotFound)
		case errors.Is(err, purchase.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, purchase.ErrNotFound) {
			http.Error(w, "purchase not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
