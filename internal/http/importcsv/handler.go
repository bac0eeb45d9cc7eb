package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sbenali/autostock/internal/auth"
	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/importer"
)

// Handler runs the two-step catalog import: a multipart upload is parsed
// into a preview, then a confirmed request replaces the whole catalog.
// The confirmation step re-checks the caller's password because the
// replace wipes movements and sales along with the products.
type Handler struct {
	importSvc  *importer.Service
	catalogSvc *catalog.Service
	authSvc    *auth.Service
}

func NewHandler(importSvc *importer.Service, catalogSvc *catalog.Service, authSvc *auth.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		catalogSvc: catalogSvc,
		authSvc:    authSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/products", h.preview)
	r.Post("/products/confirm", h.confirm)
}

type productParamsDTO struct {
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

type previewResponse struct {
	Count    int                `json:"count"`
	Products []productParamsDTO `json:"products"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := previewResponse{
		Count:    len(params),
		Products: make([]productParamsDTO, 0, len(params)),
	}
	for _, p := range params {
		resp.Products = append(resp.Products, toDTO(p))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type confirmRequest struct {
	Password string             `json:"password"`
	Products []productParamsDTO `json:"products"`
}

type confirmResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
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

	params := make([]catalog.CreateParams, 0, len(req.Products))
	for _, p := range req.Products {
		params = append(params, fromDTO(p))
	}

	products, err := h.catalogSvc.ReplaceAll(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(confirmResponse{Imported: len(products)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toDTO(p catalog.CreateParams) productParamsDTO {
	return productParamsDTO{
		Reference:        p.Reference,
		Designation:      p.Designation,
		Family:           p.Family,
		SubFamily:        p.SubFamily,
		VATRate:          p.VATRate,
		PurchasePriceHT:  p.PurchasePriceHT,
		RetailPriceHT:    p.RetailPriceHT,
		WholesalePriceHT: p.WholesalePriceHT,
		Quantity:         p.Quantity,
		MinStock:         p.MinStock,
		Unit:             p.Unit,
		Location:         p.Location,
		Perishable:       p.Perishable,
		ExpiryDate:       p.ExpiryDate,
		SupplierID:       p.SupplierID,
		Barcode:          p.Barcode,
	}
}

func fromDTO(p productParamsDTO) catalog.CreateParams {
	return catalog.CreateParams{
		Reference:        p.Reference,
		Designation:      p.Designation,
		Family:           p.Family,
		SubFamily:        p.SubFamily,
		VATRate:          p.VATRate,
		PurchasePriceHT:  p.PurchasePriceHT,
		RetailPriceHT:    p.RetailPriceHT,
		WholesalePriceHT: p.WholesalePriceHT,
		Quantity:         p.Quantity,
		MinStock:         p.MinStock,
		Unit:             p.Unit,
		Location:         p.Location,
		Perishable:       p.Perishable,
		ExpiryDate:       p.ExpiryDate,
		SupplierID:       p.SupplierID,
		Barcode:          p.Barcode,
	}
}
