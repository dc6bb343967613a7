// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

// Package metrics provides Prometheus instrumentation for store
// queries, API requests, and the bundle cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of review store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of review store query errors",
		},
		[]string{"collection", "operation"},
	)

	// API metrics

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Bundle cache metrics

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_cache_hits_total",
			Help: "Total number of statistics cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_cache_misses_total",
			Help: "Total number of statistics cache misses",
		},
	)
)

// RecordStoreQuery records a store query's duration and, if it failed,
// its error.
func RecordStoreQuery(collection, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(collection, operation).Inc()
	}
}

// RecordAPIRequest records one served API request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit increments the statistics cache hit counter.
func RecordCacheHit() {
	CacheHits.Inc()
}

// RecordCacheMiss increments the statistics cache miss counter.
func RecordCacheMiss() {
	CacheMisses.Inc()
}
