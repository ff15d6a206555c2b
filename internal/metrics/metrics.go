// Package metrics exposes the Prometheus collectors shared by the refresh
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshCycles counts completed background refresh cycles.
	RefreshCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "p2p_price",
		Name:      "refresh_cycles_total",
		Help:      "Number of completed background refresh cycles.",
	})

	// RefreshFailures counts refresh cycles aborted by a cycle-level failure.
	RefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "p2p_price",
		Name:      "refresh_failures_total",
		Help:      "Number of refresh cycles that failed before publishing.",
	})

	// FetchDuration observes wall time per exchange fetch.
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "p2p_price",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of one exchange fetch (both sides).",
		Buckets:   prometheus.DefBuckets,
	}, []string{"exchange"})

	// FetchErrors counts fetches that produced an error snapshot.
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "p2p_price",
		Name:      "fetch_errors_total",
		Help:      "Number of exchange fetches that returned an error snapshot.",
	}, []string{"exchange"})
)
