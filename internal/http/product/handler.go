package product

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sbenali/autostock/internal/catalog"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createProductRequest struct {
	Reference        string       `json:"reference"`
	Designation      string       `json:"designation"`
	Family           string       `json:"family"`
	SubFamily        string       `json:"sub_family"`
	VATRate          float64      `json:"vat_rate"`
	PurchasePriceHT  int64        `json:"purchase_price_ht"`
	RetailPriceHT    int64        `json:"retail_price_ht"`
	WholesalePriceHT int64        `json:"wholesale_price_ht"`
	Quantity         int          `json:"quantity"`
	MinStock         int          `json:"min_stock"`
	Unit             catalog.Unit `json:"unit"`
	Location         string       `json:"location"`
	Perishable       bool         `json:"perishable"`
	ExpiryDate       *time.Time   `json:"expiry_date,omitempty"`
	SupplierID       string       `json:"supplier_id"`
	Barcode          string       `json:"barcode"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), catalog.CreateParams{
		Reference:        req.Reference,
		Designation:      req.Designation,
		Family:           req.Family,
		SubFamily:        req.SubFamily,
		VATRate:          req.VATRate,
		PurchasePriceHT:  req.PurchasePriceHT,
		RetailPriceHT:    req.RetailPriceHT,
		WholesalePriceHT: req.WholesalePriceHT,
		Quantity:         req.Quantity,
		MinStock:         req.MinStock,
		Unit:             req.Unit,
		Location:         req.Location,
		Perishable:       req.Perishable,
		ExpiryDate:       req.ExpiryDate,
		SupplierID:       req.SupplierID,
		Barcode:          req.Barcode,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrDuplicateReference):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, catalog.ErrMissingField):
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
	products, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(products); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
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

type updateProductRequest struct {
	Reference        *string       `json:"reference,omitempty"`
	Designation      *string       `json:"designation,omitempty"`
	Family           *string       `json:"family,omitempty"`
	SubFamily        *string       `json:"sub_family,omitempty"`
	VATRate          *float64      `json:"vat_rate,omitempty"`
	PurchasePriceHT  *int64        `json:"purchase_price_ht,omitempty"`
	RetailPriceHT    *int64        `json:"retail_price_ht,omitempty"`
	WholesalePriceHT *int64        `json:"wholesale_price_ht,omitempty"`
	Quantity         *int          `json:"quantity,omitempty"`
	MinStock         *int          `json:"min_stock,omitempty"`
	Unit             *catalog.Unit `json:"unit,omitempty"`
	Location         *string       `json:"location,omitempty"`
	Perishable       *bool         `json:"perishable,omitempty"`
	ExpiryDate       *time.Time    `json:"expiry_date,omitempty"`
	SupplierID       *string       `json:"supplier_id,omitempty"`
	Barcode          *string       `json:"barcode,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), catalog.UpdateParams{
		Reference:        req.Reference,
		Designation:      req.Designation,
		Family:           req.Family,
		SubFamily:        req.SubFamily,
		VATRate:          req.VATRate,
		PurchasePriceHT:  req.PurchasePriceHT,
		RetailPriceHT:    req.RetailPriceHT,
		WholesalePriceHT: req.WholesalePriceHT,
		Quantity:         req.Quantity,
		MinStock:         req.MinStock,
		Unit:             req.Unit,
		Location:         req.Location,
		Perishable:       req.Perishable,
		ExpiryDate:       req.ExpiryDate,
		SupplierID:       req.SupplierID,
		Barcode:          req.Barcode,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, catalog.ErrDuplicateReference):
			http.Error(w, err.Error(), http.StatusConflict)
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
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
