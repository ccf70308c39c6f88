package guardkit

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful Login calls.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts failed Login and VerifyCredentials calls.
	MetricLoginFailure
	// MetricAuthSuccess counts successful Authenticate calls.
	MetricAuthSuccess
	// MetricAuthFailure counts failed Authenticate calls.
	MetricAuthFailure
	// MetricAuthViaRemember counts authentications satisfied by a remember-me
	// token rather than the session.
	MetricAuthViaRemember
	// MetricTokenIssued counts remember-me tokens minted by Login.
	MetricTokenIssued
	// MetricTokenRotated counts token secrets rotated past the grace window.
	MetricTokenRotated
	// MetricLogout counts Logout calls.
	MetricLogout
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds atomic counters. When disabled, all operations are no-ops.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig].
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Get returns the current value of a counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot returns a deep copy of the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
