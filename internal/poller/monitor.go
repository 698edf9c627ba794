package poller

import (
	"context"
	"log/slog"
	"time"

	"vouch/internal/platform/metrics"
)

// DefaultMonitorInterval is how often the monitor inspects the liveness flag.
const DefaultMonitorInterval = 30 * time.Second

// Monitor observes the supervisor's liveness flag on a fixed schedule and
// starts a replacement receive loop when it finds the flag down. It also
// backs the health-check surface via Alive.
type Monitor struct {
	sup      *Supervisor
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewMonitor builds a Monitor over the given supervisor.
func NewMonitor(sup *Supervisor, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) *Monitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	return &Monitor{sup: sup, interval: interval, logger: logger, metrics: m}
}

// Alive exposes the supervisor's liveness flag to the health surface.
func (m *Monitor) Alive() bool {
	return m.sup.Alive()
}

// Run ticks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	if m.sup.Alive() {
		m.logger.DebugContext(ctx, "liveness check", "status", "alive")
		return
	}

	// Start refuses to double an existing loop goroutine, so a transiently
	// slow-but-alive loop is left alone.
	if m.sup.Start(ctx) {
		m.metrics.IncMonitorRevives()
		m.logger.WarnContext(ctx, "receive loop down, started replacement")
		return
	}
	m.logger.WarnContext(ctx, "receive loop not live but previous run has not exited, waiting")
}
