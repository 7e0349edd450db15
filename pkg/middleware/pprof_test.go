package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erohshop/storefront/pkg/httputil"
)

func TestIPAllowlist(t *testing.T) {
	mw := IPAllowlist([]string{"10.0.0.0/8", "::1/128", "not-a-cidr"}, discardLogger())
	handler := mw(okHandler())

	tests := []struct {
		remoteAddr string
		want       int
	}{
		{"10.1.2.3:5000", http.StatusOK},
		{"10.1.2.3", http.StatusOK},
		{"[::1]:8080", http.StatusOK},
		{"[::ffff:10.0.0.9]:80", http.StatusOK},
		{"192.168.1.1:5000", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tt.remoteAddr
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestIPAllowlist_ForbiddenEnvelope(t *testing.T) {
	handler := IPAllowlist(nil, discardLogger())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/heap", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestRegisterPprof_ServesIndexToAllowedPeer(t *testing.T) {
	r := chi.NewRouter()
	RegisterPprof(r, []string{"192.0.2.0/24"}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "goroutine")
}
