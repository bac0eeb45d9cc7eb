package movement

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sbenali/autostock/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.record)
	r.Post("/adjust", h.adjust)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := inventory.ListFilter{}

	if s := r.URL.Query().Get("product_id"); s != "" {
		filter.ProductID = &s
	}

	if s := r.URL.Query().Get("direction"); s != "" {
		d := inventory.Direction(s)
		filter.Direction = &d
	}

	movements, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(movements); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type recordMovementRequest struct {
	ProductID   string              `json:"product_id"`
	Direction   inventory.Direction `json:"direction"`
	Quantity    int                 `json:"quantity"`
	Date        time.Time           `json:"date"`
	Comment     string              `json:"comment"`
	DocumentRef string              `json:"document_ref"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Record(r.Context(), inventory.RecordParams{
		ProductID:   req.ProductID,
		Direction:   req.Direction,
		Quantity:    req.Quantity,
		Date:        req.Date,
		Comment:     req.Comment,
		DocumentRef: req.DocumentRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrBadQuantity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, inventory.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(m); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type adjustStockRequest struct {
	ProductID string `json:"product_id"`
	Counted   int    `json:"counted"`
	Reason    string `json:"reason"`
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Adjust(r.Context(), req.ProductID, req.Counted, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, inventory.ErrNoDifference):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(m); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
