package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"newsdesk/internal/handler/http/respond"
	"newsdesk/internal/observability/logging"
	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/usecase/refresh"
)

// MaxLimit bounds the limit query parameter of GET /digest.
const MaxLimit = 100

// Results answers digest requests, normally a *refresh.Chain.
type Results interface {
	Get(ctx context.Context) (*refresh.Result, error)
}

// Cache is the background cache, normally a *refresh.Orchestrator.
type Cache interface {
	CacheStatus() refresh.Status
	TriggerImmediateRefresh() bool
}

// Breakers reports the outbound circuit breakers, normally a *resilience.Registry.
type Breakers interface {
	Statuses() []circuitbreaker.Status
}

// GetHandler serves the ranked digest through the fallback chain.
type GetHandler struct {
	Results Results
	Now     func() time.Time
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, respond.Public(err.Error(), err))
		return
	}

	res, err := h.Results.Get(r.Context())
	if err != nil {
		if errors.Is(err, refresh.ErrNoResults) {
			logger.Warn("digest unavailable", slog.Any("error", err))
			respond.SafeError(w, http.StatusServiceUnavailable,
				respond.Public("digest temporarily unavailable", err))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	articles := res.Articles
	if limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}
	dtos := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		dtos = append(dtos, toDTO(a))
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	respond.JSON(w, http.StatusOK, Response{
		Provider:    res.Provider,
		Count:       len(dtos),
		GeneratedAt: now().UTC(),
		Articles:    dtos,
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxLimit {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", MaxLimit)
	}
	return n, nil
}

// StatusHandler reports the background cache state.
type StatusHandler struct {
	Cache Cache
}

func (h StatusHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, http.StatusOK, h.Cache.CacheStatus())
}

// RefreshHandler starts a background refresh and returns without waiting.
type RefreshHandler struct {
	Cache Cache
}

func (h RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.Cache.TriggerImmediateRefresh() {
		respond.JSON(w, http.StatusAccepted, RefreshResponse{
			Accepted: false,
			Message:  "refresh already in progress",
		})
		return
	}
	logging.FromContext(r.Context()).Info("manual refresh triggered")
	respond.JSON(w, http.StatusAccepted, RefreshResponse{
		Accepted: true,
		Message:  "refresh started",
	})
}

// ResilienceHandler reports every circuit breaker.
type ResilienceHandler struct {
	Breakers Breakers
}

func (h ResilienceHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	statuses := h.Breakers.Statuses()
	if statuses == nil {
		statuses = []circuitbreaker.Status{}
	}
	respond.JSON(w, http.StatusOK, ResilienceResponse{Services: statuses})
}
