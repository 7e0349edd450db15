// Package remote talks to the dummyjson demo API: the product catalog, the
// category list and the login endpoint.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/erohshop/storefront/internal/domain"
	apperrors "github.com/erohshop/storefront/pkg/errors"
	"github.com/erohshop/storefront/pkg/httpclient"
	"github.com/erohshop/storefront/pkg/tracing"
)

// ServiceName labels errors and metrics for the remote API.
const ServiceName = "catalog-api"

// maxBodyBytes caps how much of a remote response is decoded.
const maxBodyBytes = 16 << 20

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_remote_requests_total",
		Help: "Total number of calls to the remote catalog API by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

// Doer executes HTTP requests. httpclient.Client and
// httpclient.CircuitBreakerClient both satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Source is the read side of the remote API used by the catalog and category
// containers.
type Source interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	FetchCategories(ctx context.Context) ([]domain.Category, error)
}

// Authenticator exchanges credentials for a user record.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
}

// Client is the dummyjson API client.
type Client struct {
	http    Doer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a client rooted at baseURL, e.g. https://dummyjson.com.
func NewClient(doer Doer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// FetchProducts returns the full product list. limit=0 asks dummyjson for
// every product in one page.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracing.Tracer("remote").Start(ctx, "remote.FetchProducts")
	defer span.End()

	var body productsResponse
	if err := c.getJSON(ctx, "/products?limit=0", &body); err != nil {
		requestsTotal.WithLabelValues("products", "error").Inc()
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	requestsTotal.WithLabelValues("products", "ok").Inc()

	if body.Products == nil {
		body.Products = []domain.Product{}
	}
	span.SetAttributes(attribute.Int("products.count", len(body.Products)))
	c.logger.DebugContext(ctx, "fetched products", slog.Int("count", len(body.Products)))
	return body.Products, nil
}

// FetchCategories returns the category list. Both the object form
// ({slug,name,url}) and the older plain string form are accepted.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracing.Tracer("remote").Start(ctx, "remote.FetchCategories")
	defer span.End()

	var raw []json.RawMessage
	if err := c.getJSON(ctx, "/products/categories", &raw); err != nil {
		requestsTotal.WithLabelValues("categories", "error").Inc()
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(raw))
	for _, item := range raw {
		cat, err := decodeCategory(item)
		if err != nil {
			requestsTotal.WithLabelValues("categories", "error").Inc()
			tracing.RecordError(span, err)
			return nil, fmt.Errorf("fetch categories: %w", err)
		}
		categories = append(categories, cat)
	}
	requestsTotal.WithLabelValues("categories", "ok").Inc()

	span.SetAttributes(attribute.Int("categories.count", len(categories)))
	return categories, nil
}

func decodeCategory(item json.RawMessage) (domain.Category, error) {
	var slug string
	if err := json.Unmarshal(item, &slug); err == nil {
		return domain.Category{Slug: slug, Name: slug}, nil
	}

	var cat domain.Category
	if err := json.Unmarshal(item, &cat); err != nil {
		return domain.Category{}, fmt.Errorf("decode category: %w", err)
	}
	if cat.Name == "" {
		cat.Name = cat.Slug
	}
	return cat, nil
}

type loginFailure struct {
	Message string `json:"message"`
}

// Login posts form-encoded credentials to /auth/login. The request is never
// retried. Any non-2xx answer is reported as UNAUTHORIZED; transport failures
// as AUTH_UNAVAILABLE.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	ctx, span := tracing.Tracer("remote").Start(ctx, "remote.Login")
	defer span.End()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpclient.WithoutRetry(ctx), req)
	if err != nil {
		requestsTotal.WithLabelValues("login", "error").Inc()
		tracing.RecordError(span, err)
		return nil, apperrors.Unavailable("AUTH_UNAVAILABLE", "login service is unavailable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestsTotal.WithLabelValues("login", "rejected").Inc()
		msg := "invalid credentials"
		var failure loginFailure
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&failure) == nil && failure.Message != "" {
			msg = failure.Message
		}
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return nil, apperrors.Unauthorized(msg)
	}

	var user domain.User
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&user); err != nil {
		requestsTotal.WithLabelValues("login", "error").Inc()
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	requestsTotal.WithLabelValues("login", "ok").Inc()

	return &user, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call %s: %w", ServiceName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, ServiceName)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// HealthCheck returns a readiness check that fails while the breaker guarding
// the remote API is open.
func HealthCheck(cb *httpclient.CircuitBreakerClient) func(ctx context.Context) error {
	return func(context.Context) error {
		if cb.State() == gobreaker.StateOpen {
			return errors.New("circuit breaker open")
		}
		return nil
	}
}
