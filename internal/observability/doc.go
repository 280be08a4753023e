// Package observability groups the logging, metrics and tracing support of the
// digest service.
//
// Subpackages:
//   - logging: slog constructors and request-scoped loggers
//   - metrics: Prometheus collectors and recorders for refresh, fetch, ranking and HTTP
//   - tracing: OpenTelemetry provider setup and HTTP server spans
package observability
