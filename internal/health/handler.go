// Package health serves the read-only liveness surface: a free-text root
// status, a machine-checkable /health endpoint, and prometheus metrics.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LivenessReporter exposes the receive loop's liveness flag.
type LivenessReporter interface {
	Alive() bool
}

// Handler is the thin HTTP layer over the liveness flag. It delegates all
// state to the reporter; every endpoint is side-effect free.
type Handler struct {
	reporter   LivenessReporter
	storeCheck func(ctx context.Context) error
}

// Option configures a Handler.
type Option func(*Handler)

// WithStoreCheck adds a backend reachability check reported as a detail in
// /health. Store reachability never drives the status code: liveness is the
// receive loop's, and store faults already degrade to generic replies.
func WithStoreCheck(check func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.storeCheck = check
	}
}

// New builds a Handler over the given reporter.
func New(reporter LivenessReporter, opts ...Option) *Handler {
	h := &Handler{reporter: reporter}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router wires the health endpoints.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	status := "down"
	if h.reporter.Alive() {
		status = "alive"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "vouch bot is running, polling: %s\n", status)
}

// handleHealth reports 503 while the receive loop is down. The monitor
// self-heals the loop, so probes see transient failures across a restart
// window rather than a permanently red check.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	alive := h.reporter.Alive()
	body := map[string]any{
		"status":  statusWord(alive),
		"polling": alive,
	}
	if h.storeCheck != nil {
		store := "ok"
		if err := h.storeCheck(r.Context()); err != nil {
			store = "unreachable"
		}
		body["store"] = store
	}
	w.Header().Set("Content-Type", "application/json")
	if !alive {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(body)
}

func statusWord(alive bool) string {
	if alive {
		return "ok"
	}
	return "degraded"
}
