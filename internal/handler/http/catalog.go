package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/erohshop/storefront/internal/browse"
	apperrors "github.com/erohshop/storefront/pkg/errors"
	"github.com/erohshop/storefront/pkg/httputil"
)

// ListProducts handles GET /api/v1/products?category=&q=&price=&sort=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	query, err := browse.ParseQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := p.Catalog.EnsureLoaded(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: browse.Apply(p.Catalog.List(), query)})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := p.Catalog.EnsureLoaded(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, found := p.Catalog.Get(id)
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", strconv.Itoa(id)), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListCategories handles GET /api/v1/categories. The list is fetched on first
// use and again when refresh=true is passed.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	if !p.Categories.Loaded() || r.URL.Query().Get("refresh") == "true" {
		if _, err := p.Categories.Refresh(r.Context()); err != nil {
			httputil.WriteError(w, r,
				apperrors.Unavailable("CATALOG_UNAVAILABLE", "category list is unavailable", err), h.logger)
			return
		}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Categories.List()})
}
