// Package directory serves the client and supplier address books. Both
// resources share the same contact shape so one handler covers the two
// route groups.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbenali/autostock/internal/directory"
)

type Handler struct {
	svc *directory.Service
}

func NewHandler(svc *directory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ClientRoutes(r chi.Router) {
	r.Post("/", h.createClient)
	r.Get("/", h.listClients)
	r.Get("/{id}", h.getClient)
	r.Patch("/{id}", h.updateClient)
	r.Delete("/{id}", h.deleteClient)
}

func (h *Handler) SupplierRoutes(r chi.Router) {
	r.Post("/", h.createSupplier)
	r.Get("/", h.listSuppliers)
	r.Get("/{id}", h.getSupplier)
	r.Patch("/{id}", h.updateSupplier)
	r.Delete("/{id}", h.deleteSupplier)
}

type contactRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type contactUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, func(ctx context.Context, params directory.ContactParams) (any, error) {
		return h.svc.CreateClient(ctx, params)
	})
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, func(ctx context.Context, params directory.ContactParams) (any, error) {
		return h.svc.CreateSupplier(ctx, params)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, fn func(context.Context, directory.ContactParams) (any, error)) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contact, err := fn(r.Context(), directory.ContactParams{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		if errors.Is(err, directory.ErrMissingName) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	respond(w, http.StatusCreated, contact)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, clients)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, suppliers)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.svc.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		notFoundOrInternal(w, err, directory.ErrClientNotFound, "client not found")
		return
	}

	respond(w, http.StatusOK, client)
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.svc.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		notFoundOrInternal(w, err, directory.ErrSupplierNotFound, "supplier not found")
		return
	}

	respond(w, http.StatusOK, supplier)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	var req contactUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	client, err := h.svc.UpdateClient(r.Context(), chi.URLParam(r, "id"), toUpdate(req))
	if err != nil {
		notFoundOrInternal(w, err, directory.ErrClientNotFound, "client not found")
		return
	}

	respond(w, http.StatusOK, client)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var req contactUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	supplier, err := h.svc.UpdateSupplier(r.Context(), chi.URLParam(r, "id"), toUpdate(req))
	if err != nil {
		notFoundOrInternal(w, err, directory.ErrSupplierNotFound, "supplier not found")
		return
	}

	respond(w, http.StatusOK, supplier)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOrInternal(w, err, directory.ErrClientNotFound, "client not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOrInternal(w, err, directory.ErrSupplierNotFound, "supplier not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toUpdate(req contactUpdateRequest) directory.ContactUpdate {
	return directory.ContactUpdate{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func notFoundOrInternal(w http.ResponseWriter, err, sentinel error, msg string) {
	if errors.Is(err, sentinel) {
		http.Error(w, msg, http.StatusNotFound)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
