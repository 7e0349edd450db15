package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/erohshop/storefront/internal/domain"
	"github.com/erohshop/storefront/internal/service"
	apperrors "github.com/erohshop/storefront/pkg/errors"
	"github.com/erohshop/storefront/pkg/httputil"
)

// GetCart handles GET /api/v1/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Cart.Summary()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}
	p.Cart.Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Cart.Summary()})
}

// AddCartItem handles POST /api/v1/cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := h.catalogProduct(r, p, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	summary, err := p.Cart.Add(r.Context(), product, quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// UpdateCartItem handles PUT /api/v1/cart/items/{productId}
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	summary, err := p.Cart.SetQuantity(r.Context(), productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/{productId}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Cart.Remove(r.Context(), productID)})
}

// catalogProduct looks a product up in the profile's catalog, loading it if
// necessary.
func (h *Handler) catalogProduct(r *http.Request, p *service.Profile, id int) (domain.Product, error) {
	if err := p.Catalog.EnsureLoaded(r.Context()); err != nil {
		return domain.Product{}, err
	}
	product, ok := p.Catalog.Get(id)
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return product, nil
}
