package middleware

import (
	"log/slog"
	"net/http"

	"github.com/erohshop/storefront/pkg/logger"
)

// ProfileHeader carries the shopper profile id for clients that don't keep cookies.
const ProfileHeader = "X-Profile-ID"

// RequestLogger stores a per-request logger in the context, retrievable with
// logger.FromContext. It carries whatever correlation, profile and trace ids
// are known at this point, so mount it after RequestLogging, Tracing and the
// profile resolver. A profile id already in the context beats the raw header.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logger.ProfileIDFromContext(ctx) == "" {
				if id := r.Header.Get(ProfileHeader); id != "" {
					ctx = logger.WithProfileID(ctx, id)
				}
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
