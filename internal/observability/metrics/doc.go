// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Digest refresh metrics (runs, duration, cache age, provider)
//   - Feed fetch and ranking metrics
//   - Circuit breaker state and rejections
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "newsdesk/internal/observability/metrics"
//
//	start := time.Now()
//	articles, err := fetcher.Fetch(ctx, source.FeedURL)
//	metrics.RecordFeedFetch(source.Name, time.Since(start))
//	if err == nil {
//	    metrics.RecordArticlesFetched(source.Name, len(articles))
//	}
package metrics
