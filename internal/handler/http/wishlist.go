package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erohshop/storefront/pkg/httputil"
)

// GetWishlist handles GET /api/v1/wishlist
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Wishlist.Entries()})
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}
	p.Wishlist.Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Wishlist.Entries()})
}

// AddWishlistItem handles POST /api/v1/wishlist/items
func (h *Handler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	var req AddWishlistItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.catalogProduct(r, p, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusOK
	if p.Wishlist.Add(r.Context(), product) {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, httputil.Response{Data: p.Wishlist.Entries()})
}

// RemoveWishlistItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	p.Wishlist.Remove(r.Context(), productID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.Wishlist.Entries()})
}

// MoveWishlistItemToCart handles POST /api/v1/wishlist/items/{productId}/move-to-cart
func (h *Handler) MoveWishlistItemToCart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	summary, err := p.Wishlist.MoveToCart(r.Context(), productID, p.Cart)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
