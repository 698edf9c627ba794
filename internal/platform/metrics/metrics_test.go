package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Stores and loops accept a nil *Metrics so tests skip registry setup;
// every instrument method must tolerate that.
func TestNilMetricsIsNoOpSink(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveCommand("check", "ok")
		m.IncPollRestarts()
		m.SetPollAlive(true)
		m.SetPollAlive(false)
		m.IncMonitorRevives()
		m.ObserveStoreOp("redis", "find", 1.5)
	})
}
