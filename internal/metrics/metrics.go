// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

// Package metrics holds keepfeed's Prometheus instrumentation. Collectors are
// registered on the default registry at init and exposed at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Library Metrics
	LibraryLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keepfeed_library_loads_total",
			Help: "Library source reads by origin and result",
		},
		[]string{"origin", "result"}, // origin: file, url; result: success, error
	)

	LibraryLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keepfeed_library_load_duration_seconds",
			Help:    "Time to read and decode a library export",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"origin"},
	)

	LibraryMemo = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keepfeed_library_memo_total",
			Help: "Library memo lookups (hit, miss, invalidated)",
		},
		[]string{"result"},
	)

	LibraryGames = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "keepfeed_library_games",
			Help: "Games in the most recent load of each library path",
		},
		[]string{"path"},
	)

	// Article Cache Metrics
	ArticleCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keepfeed_article_cache_requests_total",
			Help: "Article cache lookups by cache and outcome (hit, refreshed, stale, miss)",
		},
		[]string{"cache", "outcome"},
	)

	ArticleFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keepfeed_article_fetches_total",
			Help: "Wikipedia article list fetches by kind and result",
		},
		[]string{"kind", "result"},
	)

	ArticleFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keepfeed_article_fetch_duration_seconds",
			Help:    "Wikipedia article list fetch latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"kind"},
	)

	PackWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keepfeed_pack_writes_total",
			Help: "Article pack files written by pack name",
		},
		[]string{"pack"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	ActiveSessions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "keepfeed_sessions",
			Help: "Provider sessions held by the host bridge",
		},
		[]string{"provider"},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordLibraryLoad records one library source read.
func RecordLibraryLoad(origin string, duration time.Duration, err error) {
	LibraryLoads.WithLabelValues(origin, result(err)).Inc()
	LibraryLoadDuration.WithLabelValues(origin).Observe(duration.Seconds())
}

// RecordArticleFetch records one Wikipedia list fetch.
func RecordArticleFetch(kind string, duration time.Duration, err error) {
	ArticleFetches.WithLabelValues(kind, result(err)).Inc()
	ArticleFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
