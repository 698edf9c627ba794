// Package metrics exposes the bot's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the instruments shared by the router, supervisor, and
// monitor. One instance is built in main and injected; a nil *Metrics is a
// valid no-op sink so tests skip registry setup.
type Metrics struct {
	CommandsTotal     *prometheus.CounterVec
	PollRestartsTotal prometheus.Counter
	PollAlive         prometheus.Gauge
	MonitorRevives    prometheus.Counter
	StoreOpDurationMs *prometheus.HistogramVec
}

// New registers and returns the bot's metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		CommandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vouch_commands_total",
			Help: "Total commands handled, by command name and outcome",
		}, []string{"command", "outcome"}),
		PollRestartsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouch_poll_restarts_total",
			Help: "Total times the receive loop re-entered polling after a fault or return",
		}),
		PollAlive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vouch_poll_alive",
			Help: "1 while the receive loop is inside its blocking poll, else 0",
		}),
		MonitorRevives: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouch_monitor_revives_total",
			Help: "Total supervisor starts triggered by the liveness monitor",
		}),
		StoreOpDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vouch_store_op_duration_ms",
			Help:    "Latency of verification store operations in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		}, []string{"backend", "op"}),
	}
}

// ObserveCommand records one handled command with its outcome label.
func (m *Metrics) ObserveCommand(command, outcome string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// IncPollRestarts counts a backoff-and-restart cycle.
func (m *Metrics) IncPollRestarts() {
	if m == nil {
		return
	}
	m.PollRestartsTotal.Inc()
}

// SetPollAlive mirrors the liveness flag into the gauge.
func (m *Metrics) SetPollAlive(alive bool) {
	if m == nil {
		return
	}
	if alive {
		m.PollAlive.Set(1)
		return
	}
	m.PollAlive.Set(0)
}

// IncMonitorRevives counts a monitor-triggered supervisor start.
func (m *Metrics) IncMonitorRevives() {
	if m == nil {
		return
	}
	m.MonitorRevives.Inc()
}

// ObserveStoreOp records the latency of one store operation in milliseconds.
func (m *Metrics) ObserveStoreOp(backend, op string, ms float64) {
	if m == nil {
		return
	}
	m.StoreOpDurationMs.WithLabelValues(backend, op).Observe(ms)
}
