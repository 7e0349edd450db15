// Package http exposes the per-profile storefront state over a JSON API.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erohshop/storefront/internal/service"
	"github.com/erohshop/storefront/pkg/httputil"
	"github.com/erohshop/storefront/pkg/validator"
)

// Handler serves every storefront route. State lives in the profile bundle
// that ResolveProfile puts in the request context.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new storefront HTTP handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// --- Request DTOs ---

// LoginRequest is the JSON body for POST /api/v1/session/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// AddCartItemRequest is the JSON body for POST /api/v1/cart/items. Quantity
// defaults to 1 when omitted.
type AddCartItemRequest struct {
	ProductID int  `json:"productId" validate:"required,gt=0"`
	Quantity  *int `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateCartItemRequest is the JSON body for PUT /api/v1/cart/items/{productId}.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// AddWishlistItemRequest is the JSON body for POST /api/v1/wishlist/items.
type AddWishlistItemRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	LoggedIn bool `json:"loggedIn"`
	User     any  `json:"user,omitempty"`
}

// profile returns the request's profile bundle, writing a 500 if the
// ResolveProfile middleware was not mounted.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request) (*service.Profile, bool) {
	p, ok := profileFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, errors.New("profile middleware not mounted"), h.logger)
		return nil, false
	}
	return p, true
}

// decode reads and validates a JSON body, writing the error response itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return false
	}
	if err := validator.Validate(dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}
