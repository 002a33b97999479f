// Package metrics defines and registers all custom Prometheus metrics for the
// Decrypto API. It is the single source of truth for metric names, labels,
// and help strings. Everything self-registers with the default registry at
// package load, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "decrypto"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account creations.
// Label:
//   - mode: "open" (self-service signup) or "operator" (created by a superuser)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by mode.",
	},
	[]string{"mode"},
)

// TokenValidationsTotal counts bearer token checks at the HTTP boundary.
// Label:
//   - result: "ok" or "rejected"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// GuardDenialsTotal counts requests refused by the access guard.
// Label:
//   - reason: "unauthenticated", "forbidden" or "event_not_active"
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by the access guard, by reason.",
	},
	[]string{"reason"},
)

// PasswordResetsTotal counts password recovery traffic.
// Label:
//   - step: "requested" (reset mail issued) or "completed" (new password set)
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests and completions.",
	},
	[]string{"step"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events written to the trail.
// Label:
//   - kind: the event kind (e.g. "login", "guard_denial")
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events persisted, by kind.",
	},
	[]string{"kind"},
)

// AuditEventsDroppedTotal counts audit events discarded because their worker
// channel was full. The trail is best-effort; request handling never blocks
// on it.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to queue pressure.",
	},
)

// AuditWriteDuration measures how long persisting one audit event takes.
// Label:
//   - kind: the event kind
var AuditWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit event writes from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"kind"},
)
