package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/api/v1/products", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCORS_AllowOrigin(t *testing.T) {
	shopOrigins := []string{"https://shop.example.com", "https://admin.example.com"}

	tests := []struct {
		name        string
		cfg         CORSConfig
		origin      string
		wantOrigin  string
		wantVary    bool
		wantCredits bool
	}{
		{
			name:       "development wildcard",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"},
			origin:     "https://anything.test",
			wantOrigin: "*",
		},
		{
			name:       "development wildcard without origin",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"},
			wantOrigin: "*",
		},
		{
			name:       "production listed origin",
			cfg:        CORSConfig{AllowedOrigins: shopOrigins, Environment: "production"},
			origin:     "https://admin.example.com",
			wantOrigin: "https://admin.example.com",
			wantVary:   true,
		},
		{
			name:   "production unlisted origin",
			cfg:    CORSConfig{AllowedOrigins: shopOrigins, Environment: "production"},
			origin: "https://evil.test",
		},
		{
			name: "production without origin",
			cfg:  CORSConfig{AllowedOrigins: shopOrigins, Environment: "production"},
		},
		{
			name:       "explicit star in production",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, Environment: "production"},
			origin:     "https://anything.test",
			wantOrigin: "*",
		},
		{
			name:        "credentials with listed origin",
			cfg:         CORSConfig{AllowedOrigins: shopOrigins, AllowCredentials: true, Environment: "production"},
			origin:      "https://shop.example.com",
			wantOrigin:  "https://shop.example.com",
			wantVary:    true,
			wantCredits: true,
		},
		{
			name:        "credentials with wildcard echo the origin",
			cfg:         CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true},
			origin:      "http://localhost:5173",
			wantOrigin:  "http://localhost:5173",
			wantVary:    true,
			wantCredits: true,
		},
		{
			name:   "credentials with unlisted origin",
			cfg:    CORSConfig{AllowedOrigins: shopOrigins, AllowCredentials: true, Environment: "production"},
			origin: "https://evil.test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveCORS(tt.cfg, http.MethodGet, tt.origin)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantVary {
				assert.Equal(t, "Origin", rr.Header().Get("Vary"))
			} else {
				assert.Empty(t, rr.Header().Get("Vary"))
			}
			if tt.wantCredits {
				assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestCORS_PreflightReturns204(t *testing.T) {
	rr := serveCORS(DefaultCORSConfig(), http.MethodOptions, "https://shop.example.com")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID, X-Profile-ID", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Correlation-ID, X-Profile-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_EmptyFieldsUseDefaults(t *testing.T) {
	rr := serveCORS(CORSConfig{AllowedOrigins: []string{"*"}}, http.MethodGet, "")

	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), ProfileHeader)
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_CustomMaxAgeAndHeaders(t *testing.T) {
	rr := serveCORS(CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         7200,
	}, http.MethodGet, "")

	assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "7200", rr.Header().Get("Access-Control-Max-Age"))
}
