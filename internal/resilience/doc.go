// Package resilience provides reliability and fault tolerance patterns for outbound calls.
// Every external dependency (feed endpoints, the scoring service, the source store) is
// reached through a Client obtained from a single Registry created at startup.
//
// The package supports:
//   - Circuit breakers per logical service name (circuitbreaker subpackage)
//   - Retry logic with exponential backoff and jitter (retry subpackage)
//   - A status export of every breaker for operational visibility
//
// Usage Example:
//
//	registry := resilience.NewRegistry(resilience.DefaultProfiles())
//	client := registry.Client(resilience.ServiceRSSFeeds)
//	items, err := resilience.Do(ctx, client, func(ctx context.Context) ([]Item, error) {
//	    return fetchFeed(ctx, url)
//	})
package resilience
