package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/erohshop/storefront/pkg/logger"
)

// logThroughRequestLogger runs one request through RequestLogger with a
// handler that logs once via the context logger, and returns that line.
func logThroughRequestLogger(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	base := logger.New(logger.Options{Service: "storefront-test", Output: &buf})

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).InfoContext(r.Context(), "cart loaded")
		w.WriteHeader(http.StatusNoContent)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "log output: %s", buf.String())
	return line
}

func TestRequestLogger_Fields(t *testing.T) {
	sampled := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})

	tests := []struct {
		name   string
		ctx    context.Context
		header string
		want   map[string]string
		absent []string
	}{
		{
			name:   "bare request",
			ctx:    context.Background(),
			want:   map[string]string{"service": "storefront-test", "msg": "cart loaded"},
			absent: []string{"profile_id", "correlation_id", "trace_id"},
		},
		{
			name: "correlation id",
			ctx:  logger.WithCorrelationID(context.Background(), "corr-test-123"),
			want: map[string]string{"correlation_id": "corr-test-123"},
		},
		{
			name:   "profile from header",
			ctx:    context.Background(),
			header: "7d0c1b8e-header",
			want:   map[string]string{"profile_id": "7d0c1b8e-header"},
		},
		{
			name:   "resolved profile beats header",
			ctx:    logger.WithProfileID(context.Background(), "7d0c1b8e-cookie"),
			header: "7d0c1b8e-header",
			want:   map[string]string{"profile_id": "7d0c1b8e-cookie"},
		},
		{
			name: "trace ids",
			ctx:  trace.ContextWithSpanContext(context.Background(), sampled),
			want: map[string]string{
				"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
				"span_id":  "00f067aa0ba902b7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil).WithContext(tt.ctx)
			if tt.header != "" {
				req.Header.Set(ProfileHeader, tt.header)
			}

			line := logThroughRequestLogger(t, req)
			for k, v := range tt.want {
				assert.Equal(t, v, line[k], "field %s", k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, line, k)
			}
		})
	}
}

func TestRequestLogger_WithoutMiddlewareFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, logger.FromContext(req.Context()), logger.FromContext(context.Background()))
}
