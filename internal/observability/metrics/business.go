package metrics

import (
	"time"
)

// RecordRefreshRun records the outcome of a pipeline run.
// Status should be one of "success", "failure" or "skipped".
func RecordRefreshRun(status string, duration time.Duration) {
	RefreshRunsTotal.WithLabelValues(status).Inc()
	if status != "skipped" {
		RefreshDuration.Observe(duration.Seconds())
	}
}

// UpdateCacheAge sets the age gauge of the cached digest.
func UpdateCacheAge(age time.Duration) {
	CacheAgeSeconds.Set(age.Seconds())
}

// RecordDigestServed records which provider answered a digest request.
func RecordDigestServed(provider string) {
	DigestServedTotal.WithLabelValues(provider).Inc()
}

// RecordArticlesFetched records the number of articles fetched from a source.
func RecordArticlesFetched(sourceName string, count int) {
	ArticlesFetchedTotal.WithLabelValues(sourceName).Add(float64(count))
}

// RecordFeedFetch records the duration of one feed fetch.
func RecordFeedFetch(sourceName string, duration time.Duration) {
	FeedFetchDuration.WithLabelValues(sourceName).Observe(duration.Seconds())
}

// RecordFeedFetchError records an error during feed fetching.
// errorType is a short label such as "circuit_open", "timeout" or "fetch_failed".
func RecordFeedFetchError(sourceName, errorType string) {
	FeedFetchErrors.WithLabelValues(sourceName, errorType).Inc()
}

// RecordRankingCall records the result of one scoring call.
func RecordRankingCall(success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	RankingCallsTotal.WithLabelValues(outcome).Inc()
	RankingCallDuration.Observe(duration.Seconds())
}

// RecordAnalysisCacheLookup records an analysis cache hit or miss.
func RecordAnalysisCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	AnalysisCacheLookups.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState updates the breaker state gauge.
// state follows gobreaker's numbering: 0 closed, 1 half-open, 2 open.
func SetCircuitBreakerState(service string, state int) {
	CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerRejection records a call refused by an open breaker.
func RecordCircuitBreakerRejection(service string) {
	CircuitBreakerRejections.WithLabelValues(service).Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "list_active_sources").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
