// Package metrics provides Prometheus collectors for the Niyyah backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "niyyah"

var (
	// HTTPRequestTotal counts requests by method, route, status.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds is request latency by route.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~9.3s
		},
		[]string{"method", "route"},
	)

	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of focus sessions persisted.",
		},
	)

	// FocusSecondsTotal sums the active duration of persisted sessions.
	FocusSecondsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_seconds_total",
			Help:      "Total active focus time of persisted sessions, in seconds.",
		},
	)

	SessionValidationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_validation_failures_total",
			Help:      "Total number of rejected session create requests.",
		},
	)

	PrayerCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prayer_cache_hits_total",
			Help:      "Total number of prayer info lookups served from cache.",
		},
	)

	PrayerCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prayer_cache_misses_total",
			Help:      "Total number of prayer info lookups that required a computation.",
		},
	)

	PrayerCalculationErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prayer_calculation_errors_total",
			Help:      "Total number of failed prayer time calculations.",
		},
	)

	// PrayerCacheEntries is the number of entries after the last purge.
	PrayerCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prayer_cache_entries",
			Help:      "Number of prayer info entries held in cache.",
		},
	)

	PrayerStreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prayer_streams_active",
			Help:      "Number of connected prayer event streams.",
		},
	)
)
