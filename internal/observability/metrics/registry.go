// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight is the number of requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Refresh metrics track the digest pipeline
var (
	// RefreshRunsTotal counts pipeline runs by status (success, failure, skipped)
	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_refresh_runs_total",
			Help: "Total number of digest refresh runs",
		},
		[]string{"status"},
	)

	// RefreshDuration measures the wall time of a full pipeline run
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_refresh_duration_seconds",
			Help:    "Time taken to run the digest refresh pipeline",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// CacheAgeSeconds tracks the age of the cached digest at the last status read
	CacheAgeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_cache_age_seconds",
			Help: "Age of the cached digest in seconds",
		},
	)

	// DigestServedTotal counts digest responses by the provider that produced them
	DigestServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_served_total",
			Help: "Total number of digests served by provider",
		},
		[]string{"provider"},
	)
)

// Fetch metrics track feed retrieval
var (
	// ArticlesFetchedTotal counts articles fetched from each source
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of articles fetched from sources",
		},
		[]string{"source"},
	)

	// FeedFetchDuration measures time to fetch one feed
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch a feed source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// FeedFetchErrors counts failed feed fetches by error type
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"source", "error_type"},
	)
)

// Ranking metrics track scoring calls and the analysis cache
var (
	// RankingCallsTotal counts scoring calls by outcome (success, failure)
	RankingCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_calls_total",
			Help: "Total number of article scoring calls",
		},
		[]string{"outcome"},
	)

	// RankingCallDuration measures the duration of one scoring call
	RankingCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_call_duration_seconds",
			Help:    "Time taken to score one article",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// AnalysisCacheLookups counts analysis cache lookups by result (hit, miss)
	AnalysisCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_cache_lookups_total",
			Help: "Total number of analysis cache lookups",
		},
		[]string{"result"},
	)
)

// Resilience metrics track circuit breakers
var (
	// CircuitBreakerState reports the state per service (0 closed, 1 half-open, 2 open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service"},
	)

	// CircuitBreakerRejections counts calls refused by an open breaker
	CircuitBreakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejections_total",
			Help: "Total number of calls rejected by an open circuit breaker",
		},
		[]string{"service"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
