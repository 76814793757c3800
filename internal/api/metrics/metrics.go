// Package metrics defines and registers all custom Prometheus metrics
// for the audiotheca gateway. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "audiotheca"

// SessionOpsTotal counts session operations by outcome.
// Labels:
//   - op: "login", "register", "logout", "refresh", "change_password"
//   - result: "ok" or "error"
var SessionOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_ops_total",
		Help:      "Total number of session operations, by operation and outcome.",
	},
	[]string{"op", "result"},
)

// SearchesTotal counts debounced search submissions that fired.
// Label:
//   - result: "ok", "error", "superseded" (a newer keystroke won), or
//     "cleared" (empty query reset the result)
var SearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of search submissions, by outcome.",
	},
	[]string{"result"},
)

// GuardRedirectsTotal counts navigations denied by an access guard.
// Label:
//   - guard: "auth" (no credential) or "role" (wrong role)
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of guarded navigations redirected away.",
	},
	[]string{"guard"},
)

// UpstreamProxyDuration measures catalog passthrough latency end-to-end.
// Label:
//   - method: the HTTP method relayed upstream
var UpstreamProxyDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_proxy_duration_seconds",
		Help:      "Duration of catalog requests relayed to the upstream API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
