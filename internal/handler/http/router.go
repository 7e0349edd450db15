package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erohshop/storefront/internal/service"
	"github.com/erohshop/storefront/pkg/health"
	"github.com/erohshop/storefront/pkg/middleware"
)

// ServiceName labels metrics and spans emitted by the router.
const ServiceName = "storefront"

// RouterConfig carries the knobs of the HTTP surface.
type RouterConfig struct {
	CookieSecure   bool
	LoginRateRPS   float64
	LoginRateBurst int
	CORS           middleware.CORSConfig
	// CatalogMaxAge is the Cache-Control max-age, in seconds, of the category
	// list.
	CatalogMaxAge int
	// PprofCIDRs enables /debug/pprof for peers in these ranges. Empty
	// leaves it unmounted.
	PprofCIDRs []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	profiles *service.Profiles,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	h := NewHandler(logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(ResolveProfile(profiles, cfg.CookieSecure))
		r.Use(middleware.RequestLogger(logger))

		// Public routes
		r.Route("/session", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Get("/", h.GetSession)
			r.With(middleware.RateLimit(cfg.LoginRateRPS, cfg.LoginRateBurst, logger)).
				Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		r.With(middleware.CacheControl(cfg.CatalogMaxAge)).Get("/categories", h.ListCategories)

		// Dashboard edits change the product list at once.
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Get("/products", h.ListProducts)
			r.Get("/products/{id}", h.GetProduct)
		})

		// Session-gated routes
		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Use(middleware.NoStore)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddCartItem)
				r.Put("/items/{productId}", h.UpdateCartItem)
				r.Delete("/items/{productId}", h.RemoveCartItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.GetWishlist)
				r.Delete("/", h.ClearWishlist)
				r.Post("/items", h.AddWishlistItem)
				r.Delete("/items/{productId}", h.RemoveWishlistItem)
				r.Post("/items/{productId}/move-to-cart", h.MoveWishlistItemToCart)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", h.DashboardStats)
				r.Post("/products", h.CreateProduct)
				r.Put("/products/{id}", h.UpdateProduct)
				r.Delete("/products/{id}", h.DeleteProduct)
				r.Delete("/catalog", h.ResetCatalog)
			})
		})
	})

	return r
}
