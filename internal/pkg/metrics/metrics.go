// Package metrics defines and registers all custom Prometheus metrics for the
// notice board API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the /metrics endpoint serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "noticeboard"

// ── Notice metrics ────────────────────────────────────────────────────────────

// NoticesCreatedTotal counts notices posted.
// Label:
//   - category: "Exam", "Holiday", or "Event"
var NoticesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notices_created_total",
		Help:      "Total number of notices created, by category.",
	},
	[]string{"category"},
)

// NoticesDeletedTotal counts notices removed.
var NoticesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notices_deleted_total",
		Help:      "Total number of notices deleted.",
	},
)

// NoticeListDegradedTotal counts public listings answered with an empty
// result because the store failed.
var NoticeListDegradedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notice_list_degraded_total",
		Help:      "Total number of notice listings served empty after a storage error.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "invalid"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthorizationDeniedTotal counts authenticated callers refused by the role
// policy.
// Label:
//   - action: the policy action that was denied (e.g. "createNotice")
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the role policy.",
	},
	[]string{"action"},
)
