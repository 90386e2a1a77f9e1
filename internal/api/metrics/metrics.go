// Package metrics defines and registers all custom Prometheus metrics for the
// clinic portal. It is the single source of truth for metric names, labels,
// and help strings. Registration happens at import time via promauto; the
// router exposes the default registry on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "backend_error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route-guard outcomes per navigation.
// Label:
//   - decision: "allowed", "login_redirect", "unauthorized_redirect", "pending"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"decision"},
)

// IdleLogoutsTotal counts sessions logged out by the inactivity watcher.
var IdleLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idle_logouts_total",
		Help:      "Total number of sessions terminated by the inactivity window.",
	},
)

// BackendRequestDuration measures outbound calls to the clinic backend.
// Labels:
//   - op: logical operation (e.g. "login", "current_identity", "list_pets")
//   - outcome: "ok", "client_error", "server_error", "unreachable"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the clinic backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "outcome"},
)
