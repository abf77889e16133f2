// Package metrics defines the custom Prometheus metrics for the TrackIt API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics are registered with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trackit"

// TransactionsCreatedTotal counts created transactions.
// Label:
//   - type: "income" or "expense"
var TransactionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of transactions created, by type.",
	},
	[]string{"type"},
)

// TransactionsDeletedTotal counts deleted transactions, including bulk
// deletions.
var TransactionsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_deleted_total",
		Help:      "Total number of transactions deleted.",
	},
)

// AuthAttemptsTotal counts authentication attempts.
// Labels:
//   - operation: "register", "login", or "refresh"
//   - result: "ok" or "failed"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - class: "auth", "create", or "api"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by class.",
	},
	[]string{"class"},
)

// StatsRequestDuration measures how long a stats request takes end-to-end.
// Label:
//   - period: the requested aggregation window
var StatsRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_request_duration_seconds",
		Help:      "Duration of statistics requests, by period.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"period"},
)
