package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erohshop/storefront/internal/domain"
	apperrors "github.com/erohshop/storefront/pkg/errors"
	"github.com/erohshop/storefront/pkg/httputil"
)

// DashboardStats handles GET /api/v1/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	if err := p.Catalog.EnsureLoaded(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Catalog.Stats()})
}

// CreateProduct handles POST /api/v1/dashboard/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	var input domain.CreateProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := p.Catalog.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/dashboard/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var input domain.UpdateProductInput
	if !h.decode(w, r, &input) {
		return
	}
	if input.IsEmpty() {
		httputil.WriteError(w, r, apperrors.InvalidInput("no fields to update"), h.logger)
		return
	}

	product, err := p.Catalog.Update(r.Context(), id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/dashboard/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := p.Catalog.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetCatalog handles DELETE /api/v1/dashboard/catalog
func (h *Handler) ResetCatalog(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	p.Catalog.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
