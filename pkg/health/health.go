// Package health serves the liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Checker probes one dependency. A nil error means it is usable.
type Checker func(ctx context.Context) error

// Status is the state of one dependency or of the whole service.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// defaultTimeout bounds a whole readiness probe.
const defaultTimeout = 5 * time.Second

// Response is the probe body.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one checker.
type CheckResult struct {
	Status    Status `json:"status"`
	Critical  bool   `json:"critical"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type registration struct {
	name     string
	check    Checker
	critical bool
}

// Handler aggregates registered checkers. A failing critical checker makes
// the service not ready (503); a failing non-critical one only marks it
// degraded and readiness stays 200.
type Handler struct {
	mu      sync.RWMutex
	checks  map[string]registration
	timeout time.Duration
}

// NewHandler returns a Handler with no checkers.
func NewHandler() *Handler {
	return &Handler{checks: make(map[string]registration), timeout: defaultTimeout}
}

// RegisterCritical adds or replaces a checker the service cannot run without.
func (h *Handler) RegisterCritical(name string, check Checker) {
	h.register(registration{name: name, check: check, critical: true})
}

// RegisterNonCritical adds or replaces a checker whose failure leaves the
// service usable, such as the remote catalog or the event broker.
func (h *Handler) RegisterNonCritical(name string, check Checker) {
	h.register(registration{name: name, check: check})
}

func (h *Handler) register(reg registration) {
	h.mu.Lock()
	h.checks[reg.name] = reg
	h.mu.Unlock()
}

func (h *Handler) snapshot() []registration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	regs := make([]registration, 0, len(h.checks))
	for _, reg := range h.checks {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].name < regs[j].name })
	return regs
}

// Check runs every checker concurrently and folds the results.
func (h *Handler) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	regs := h.snapshot()
	results := make([]CheckResult, len(regs))

	var g errgroup.Group
	for i, reg := range regs {
		g.Go(func() error {
			start := time.Now()
			err := reg.check(ctx)
			res := CheckResult{
				Status:    StatusUp,
				Critical:  reg.critical,
				LatencyMS: time.Since(start).Milliseconds(),
			}
			if err != nil {
				res.Status = StatusDown
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	resp := Response{Status: StatusUp, Timestamp: time.Now().UTC()}
	if len(regs) > 0 {
		resp.Checks = make(map[string]CheckResult, len(regs))
	}
	for i, reg := range regs {
		res := results[i]
		resp.Checks[reg.name] = res
		if res.Status != StatusDown {
			continue
		}
		if res.Critical {
			resp.Status = StatusDown
		} else if resp.Status == StatusUp {
			resp.Status = StatusDegraded
		}
	}
	return resp
}

// LivenessHandler answers 200 while the process is serving.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeResponse(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler answers 503 only when a critical checker is down.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := h.Check(r.Context())
		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, resp)
	}
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
