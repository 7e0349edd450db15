package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/erohshop/storefront/pkg/httputil"
	"github.com/erohshop/storefront/pkg/logger"
)

// Recovery turns a handler panic into a 500 envelope and an error log with the
// stack. http.ErrAbortHandler is re-raised so net/http can drop the
// connection. If the handler had already started its response, only the log
// line is written.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				ctx := r.Context()
				l.LogAttrs(ctx, slog.LevelError, "panic recovered",
					slog.Any("panic", p),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Bool("response_started", rec.wroteHeader),
					slog.String("stack", string(debug.Stack())),
				)
				if rec.wroteHeader {
					return
				}
				httputil.WriteJSON(rec, http.StatusInternalServerError, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      "INTERNAL_ERROR",
						Message:   "an internal error occurred",
						RequestID: logger.CorrelationIDFromContext(ctx),
					},
				})
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
