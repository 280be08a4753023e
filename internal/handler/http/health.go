// Package http provides the HTTP middleware and probe handlers of the digest
// API: request logging, panic recovery, metrics, timeouts, and the health,
// readiness and liveness endpoints.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/handler/http/respond"
	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/usecase/refresh"
)

// Health states reported by HealthHandler.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// CacheReporter exposes the background cache state.
type CacheReporter interface {
	CacheStatus() refresh.Status
}

// BreakerReporter exposes the circuit breakers of the outbound clients.
type BreakerReporter interface {
	Statuses() []circuitbreaker.Status
}

// HealthHandler reports the state of the cache, the circuit breakers and,
// when configured, the source database. Only a failing database makes the
// service unhealthy; an empty cache or an open breaker is reported as
// degraded because the fallback chain can still answer.
type HealthHandler struct {
	Version  string
	Cache    CacheReporter
	Breakers BreakerReporter
	DB       *sql.DB
}

// ServeHTTP returns 200 for healthy or degraded and 503 for unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	if h.Cache != nil {
		checks["cache"] = h.checkCache()
	}
	if h.Breakers != nil {
		checks["circuit_breakers"] = h.checkBreakers()
	}
	if h.DB != nil {
		checks["database"] = h.checkDatabase(ctx)
	}

	status := StatusHealthy
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
		if c.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkCache() CheckStatus {
	st := h.Cache.CacheStatus()
	details := map[string]any{
		"is_processing": st.IsProcessing,
	}
	if st.MinutesSinceLastRefresh != nil {
		details["minutes_since_last_refresh"] = *st.MinutesSinceLastRefresh
	}
	if !st.HasCache {
		return CheckStatus{Status: StatusDegraded, Message: "no cached digest", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) checkBreakers() CheckStatus {
	statuses := h.Breakers.Statuses()
	details := make(map[string]any, len(statuses))
	open := 0
	for _, s := range statuses {
		details[s.Name] = s.State
		if s.State == "open" {
			open++
		}
	}
	if open > 0 {
		return CheckStatus{Status: StatusDegraded, Message: "one or more circuits open", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	start := time.Now()
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Warn("health: database ping failed", slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: StatusUnhealthy, Message: "database unreachable"}
	}
	stats := h.DB.Stats()
	return CheckStatus{
		Status: StatusHealthy,
		Details: map[string]any{
			"latency_ms":       time.Since(start).Milliseconds(),
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
	}
}

// ReadyHandler answers readiness probes. The service is ready once Ready
// reports true.
type ReadyHandler struct {
	Ready func() bool
}

// ServeHTTP returns 200 "ready" or 503 "not ready".
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if h.Ready != nil && !h.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes and always returns 200.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
