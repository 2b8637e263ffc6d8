// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Package metrics defines the Prometheus collectors exported at /metrics.
//
// Collectors are registered with the default registry through promauto and
// are safe for concurrent use.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enrichment lookup kinds.
const (
	KindSearch  = "search"
	KindDetails = "details"
)

// Enrichment lookup outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeDisabled = "disabled"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdstats_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boxdstats_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "boxdstats_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Report Metrics
	ReportBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boxdstats_report_build_duration_seconds",
			Help:    "Duration of report builds in seconds",
			Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"result"}, // "success", "input_error", "error"
	)

	ReportTitlesEnriched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "boxdstats_report_unique_titles",
			Help:    "Number of unique titles resolved per report",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
	)

	// Enrichment Metrics
	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdstats_enrichment_lookups_total",
			Help: "Metadata provider lookups by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	EnrichmentLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boxdstats_enrichment_lookup_duration_seconds",
			Help:    "Metadata provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdstats_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
		[]string{"cache_type"}, // "run", "store", "poster"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdstats_cache_misses_total",
			Help: "Total number of metadata cache misses",
		},
		[]string{"cache_type"},
	)

	EnrichmentBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdstats_enrichment_batches_total",
			Help: "Enrichment batches issued",
		},
		[]string{"mode"}, // "details", "poster"
	)

	// Social Metrics
	SocialLinkResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdstats_social_link_resolutions_total",
			Help: "Comment short-link resolutions by result",
		},
		[]string{"result"}, // "resolved", "failed", "self"
	)

	SocialAvatarFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdstats_social_avatar_fetches_total",
			Help: "Profile avatar scrapes by result",
		},
		[]string{"result"}, // "found", "missing", "error"
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
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordReportBuild records the duration and result of one report build.
func RecordReportBuild(result string, duration time.Duration, uniqueTitles int) {
	ReportBuildDuration.WithLabelValues(result).Observe(duration.Seconds())
	if uniqueTitles > 0 {
		ReportTitlesEnriched.Observe(float64(uniqueTitles))
	}
}

// RecordEnrichmentLookup records one provider call.
func RecordEnrichmentLookup(kind, outcome string, duration time.Duration) {
	EnrichmentLookups.WithLabelValues(kind, outcome).Inc()
	if duration > 0 {
		EnrichmentLookupDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordCacheAccess records a cache hit or miss for the given cache type.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}
