// Package metrics defines and registers all custom Prometheus metrics for the
// ConstructIA platform API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "constructia"

// LoginsTotal counts authentication attempts.
// Labels:
//   - kind: "client" or "admin"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by session kind and result.",
	},
	[]string{"kind", "result"},
)

// SessionMissesTotal counts guarded requests that presented a well-formed
// token but resolved to no live session (logged out, expired, or replaced).
var SessionMissesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_misses_total",
		Help:      "Guarded requests whose session was missing, expired, or replaced.",
	},
	[]string{"kind"},
)

// GateAttemptsTotal counts admin gate submissions.
// Labels:
//   - step: "passphrase" or "credentials"
//   - result: "success" or "failure"
var GateAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_attempts_total",
		Help:      "Total number of admin gate submissions, by step and result.",
	},
	[]string{"step", "result"},
)

// RegisterAuditDropped exposes the audit dispatcher's drop counter as a
// gauge. Called once at startup with the live dispatcher's counter func.
func RegisterAuditDropped(dropped func() float64) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Audit events discarded due to a saturated dispatcher buffer.",
		},
		dropped,
	)
}
