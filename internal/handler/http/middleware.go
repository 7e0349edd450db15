package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/erohshop/storefront/internal/service"
	"github.com/erohshop/storefront/pkg/httputil"
	"github.com/erohshop/storefront/pkg/logger"
	"github.com/erohshop/storefront/pkg/middleware"
)

// ProfileCookie names the cookie that carries the shopper profile id.
const ProfileCookie = "sf_profile"

// profileCookieMaxAge keeps the profile cookie for a year.
const profileCookieMaxAge = 365 * 24 * 60 * 60

type contextKey string

const profileKey contextKey = "profile"

// ResolveProfile reads the profile id from the sf_profile cookie or the
// X-Profile-ID header, minting a new one when neither holds a valid id. The
// profile bundle is stored in the request context and the id is echoed in
// the X-Profile-ID response header.
func ResolveProfile(profiles *service.Profiles, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, fromCookie := profileIDFromRequest(r)
			if id == "" {
				id = uuid.New().String()
			}
			if !fromCookie {
				http.SetCookie(w, &http.Cookie{
					Name:     ProfileCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   profileCookieMaxAge,
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(middleware.ProfileHeader, id)

			ctx := logger.WithProfileID(r.Context(), id)
			ctx = context.WithValue(ctx, profileKey, profiles.Get(ctx, id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// profileIDFromRequest returns a valid profile id from the cookie or, failing
// that, the header. fromCookie reports whether the cookie already holds it.
func profileIDFromRequest(r *http.Request) (id string, fromCookie bool) {
	if c, err := r.Cookie(ProfileCookie); err == nil && validProfileID(c.Value) {
		return c.Value, true
	}
	if h := strings.TrimSpace(r.Header.Get(middleware.ProfileHeader)); validProfileID(h) {
		return h, false
	}
	return "", false
}

func validProfileID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// profileFromContext returns the profile resolved by ResolveProfile.
func profileFromContext(ctx context.Context) (*service.Profile, bool) {
	p, ok := ctx.Value(profileKey).(*service.Profile)
	return p, ok && p != nil
}

// RequireSession rejects requests whose profile has no logged-in user with
// 401 Unauthorized. It must run after ResolveProfile.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := profileFromContext(r.Context())
		if !ok || !p.Session.LoggedIn() {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:      "UNAUTHORIZED",
					Message:   "login required",
					RequestID: logger.CorrelationIDFromContext(r.Context()),
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
