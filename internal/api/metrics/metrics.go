// Package metrics defines and registers all custom Prometheus metrics for the
// payment portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default Prometheus registry via promauto at
// package init, before the HTTP server starts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payments"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by principal domain and outcome.
// Labels:
//   - kind: "customer" or "employee"
//   - result: "success", "failure", "locked", or "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by principal kind and result.",
	},
	[]string{"kind", "result"},
)

// LockoutsTotal counts brute-force guard trips.
// Label:
//   - layer: "ip" (Redis-backed per-source limiter) or "identifier"
//     (in-process per-account lockout)
var LockoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lockouts_total",
		Help:      "Total number of login attempts refused by a brute-force guard layer.",
	},
	[]string{"layer"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsCreatedTotal counts newly created payments.
// Label:
//   - currency: ISO 4217 code ("USD", "EUR", "GBP", "ZAR")
var PaymentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of payments created, by currency.",
	},
	[]string{"currency"},
)

// TransitionsTotal counts lifecycle transitions applied by review actions.
// Label:
//   - to: the status entered ("verified", "rejected", "completed")
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of payment status transitions, by target status.",
	},
	[]string{"to"},
)

// BatchSubmitSize observes how many payments each settlement batch completed.
var BatchSubmitSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_submit_size",
		Help:      "Number of payments completed per settlement batch submission.",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
	},
)
