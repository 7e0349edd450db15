package http

import (
	"net/http"

	"github.com/erohshop/storefront/pkg/httputil"
)

// Login handles POST /api/v1/session/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := p.Session.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SessionResponse{LoggedIn: true, User: user.Public()},
	})
}

// Logout handles POST /api/v1/session/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	p.Session.Logout(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SessionResponse{LoggedIn: false}})
}

// GetSession handles GET /api/v1/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile(w, r)
	if !ok {
		return
	}

	resp := SessionResponse{}
	if user, ok := p.Session.CurrentUser(); ok {
		resp.LoggedIn = true
		resp.User = user.Public()
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}
