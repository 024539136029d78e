// Package metrics defines and registers the custom Prometheus metrics of the
// content API. It is the single source of truth for metric names, labels and
// help strings. All metrics are registered with the default registry on
// package initialisation (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "postboard"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: the registered route pattern (e.g. "/posts/:id"), never the raw path
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the authorization gate.
// Label:
//   - kind: unauthenticated, account_disabled, insufficient_scope or store_error
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the authorization gate, by error kind.",
	},
	[]string{"kind"},
)

// LoginsTotal counts password logins.
// Label:
//   - result: "success" or the error kind
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of password logins, by result.",
	},
	[]string{"result"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// PostMutationsTotal counts successful post writes.
// Label:
//   - action: "create", "update" or "delete"
var PostMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_mutations_total",
		Help:      "Total number of successful post mutations, by action.",
	},
	[]string{"action"},
)

// OwnershipDeniedTotal counts post mutations refused because the caller does
// not own the post.
var OwnershipDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denied_total",
		Help:      "Total number of post mutations refused by the ownership check.",
	},
)

// UsersBannedTotal counts successful ban requests (including repeats).
var UsersBannedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_banned_total",
		Help:      "Total number of successful ban requests.",
	},
)
