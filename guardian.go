package guardkit

import (
	"time"

	internalaudit "github.com/guardkit/guardkit/internal/audit"
)

// Guardian is the long-lived factory for per-request guards. It holds the
// configuration and the shared collaborators; it never carries request state.
type Guardian struct {
	config        Config
	tokenAge      time.Duration
	userProvider  UserProvider
	tokenProvider TokenProvider
	audit         *internalaudit.Dispatcher
	metrics       *Metrics
}

// Guard creates the authentication guard for one request. The returned
// [SessionGuard] must not outlive the request or be shared across requests:
// its state flags are request-scoped by design.
func (g *Guardian) Guard(name string, req RequestState) *SessionGuard {
	return &SessionGuard{
		name:     name,
		guardian: g,
		session:  req.Session,
		cookies:  req.Cookies,
		response: req.Response,
	}
}

// Close drains and stops the event dispatcher.
func (g *Guardian) Close() {
	if g == nil {
		return
	}
	if g.audit != nil {
		g.audit.Close()
	}
}

// AuditDropped reports lifecycle events discarded under back-pressure.
func (g *Guardian) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the guard counters.
func (g *Guardian) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return g.metrics.Snapshot()
}

func (g *Guardian) metricInc(id MetricID) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Inc(id)
}
