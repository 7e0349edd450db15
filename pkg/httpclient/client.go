// Package httpclient holds the outbound HTTP stack. Client retries over a
// pooled transport and CircuitBreakerClient guards any Doer with gobreaker.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"
)

// DefaultUserAgent identifies storefront traffic to upstream APIs.
const DefaultUserAgent = "erohshop-storefront/0.1"

// Config sizes the client. Timeout bounds each attempt, not the whole call.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
	// UserAgent is sent when a request has none. Empty means DefaultUserAgent.
	UserAgent string
}

func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    time.Second,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
		UserAgent:       DefaultUserAgent,
	}
}

type noRetryKey struct{}

// WithoutRetry marks ctx so requests sent with it get a single attempt.
// Login uses it, since a replayed credential post is not idempotent.
func WithoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey{}, true)
}

// Client sends requests with jittered exponential backoff between attempts.
type Client struct {
	http *http.Client
	cfg  Config
}

func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		http: &http.Client{Transport: newTransport(cfg.MaxConnsPerHost), Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

func newTransport(perHost int) *http.Transport {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   perHost,
		MaxConnsPerHost:       perHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

// Do sends req. Network errors and 5xx responses other than 501 are retried
// up to MaxRetries times; a Retry-After on 429 or 503 may stretch the wait up
// to RetryWaitMax. The final response is returned whatever its status.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	budget := c.cfg.MaxRetries
	if ctx.Value(noRetryKey{}) != nil {
		budget = 0
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.http.Do(req)
		last := attempt >= budget

		var wait time.Duration
		switch {
		case err != nil && (last || !isRetryableError(err)):
			return nil, fmt.Errorf("http request failed after %d attempts: %w", attempt+1, err)
		case err != nil:
			wait = c.backoff(attempt)
		case last || !retryableStatus(resp.StatusCode):
			return resp, nil
		default:
			wait = c.backoff(attempt)
			if after, ok := retryAfter(resp); ok && after > wait {
				wait = min(after, c.cfg.RetryWaitMax)
			}
			_ = resp.Body.Close()
		}

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
		if err := rewind(req); err != nil {
			return nil, err
		}
	}
}

// Get sends a bodiless GET to url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.Do(ctx, req)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// rewind restores a body the previous attempt consumed.
func rewind(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewind request body: %w", err)
	}
	req.Body = body
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	return addJitter(min(c.cfg.RetryWaitMin<<uint(attempt), c.cfg.RetryWaitMax))
}

func retryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= http.StatusInternalServerError && status != http.StatusNotImplemented
}

// retryAfter reads a delay-seconds Retry-After from a 429 or 503. HTTP-date
// values are ignored.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
	default:
		return 0, false
	}
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// isRetryableError reports whether err is a transport failure worth another
// attempt. The caller's own cancellation or deadline never is.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// addJitter spreads d by up to 25% either way.
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := float64(d) / 4
	return time.Duration(float64(d) - spread + rand.Float64()*2*spread)
}
