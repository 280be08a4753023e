package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
)

// Provider names reported with each Result.
const (
	ProviderBackground = "background"
	ProviderEmergency  = "emergency"
	ProviderOnDemand   = "on-demand"
)

// Provider is one source of ranked results in the fallback chain. A provider
// with nothing to offer returns an empty slice and a nil error.
type Provider interface {
	Name() string
	Results(ctx context.Context) ([]entity.ScoredArticle, error)
}

// Result is the answer of the first provider that had articles.
type Result struct {
	Articles []entity.ScoredArticle
	Provider string
}

// Chain asks its providers in order and returns the first non-empty answer.
type Chain struct {
	providers []Provider
}

// NewChain creates a chain over the given providers.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// NewFallbackChain builds the standard chain: background cache, then the
// emergency cache, then a synchronous on-demand run whose result is kept in
// the emergency cache.
func NewFallbackChain(o *Orchestrator, runner Runner, emergencyTTL time.Duration) *Chain {
	emergency := NewEmergencyCache(emergencyTTL, o.now)
	return NewChain(
		BackgroundProvider{Orchestrator: o},
		emergency,
		NewOnDemandProvider(runner, emergency, o.cfg.Timeout),
	)
}

// Get walks the chain. Provider errors are logged and the next provider is
// tried; ErrNoResults is returned only when every provider came up empty.
func (c *Chain) Get(ctx context.Context) (*Result, error) {
	var errs []error
	for _, p := range c.providers {
		articles, err := p.Results(ctx)
		if err != nil {
			slog.Warn("result provider failed, trying next",
				slog.String("provider", p.Name()),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if len(articles) == 0 {
			continue
		}
		metrics.RecordDigestServed(p.Name())
		return &Result{Articles: articles, Provider: p.Name()}, nil
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoResults, errors.Join(errs...))
	}
	return nil, ErrNoResults
}

// BackgroundProvider serves the orchestrator's fresh snapshot.
type BackgroundProvider struct {
	Orchestrator *Orchestrator
}

// Name implements Provider.
func (BackgroundProvider) Name() string { return ProviderBackground }

// Results implements Provider.
func (b BackgroundProvider) Results(context.Context) ([]entity.ScoredArticle, error) {
	return b.Orchestrator.CachedResults(), nil
}

// EmergencyCache holds results computed on demand for a short time.
type EmergencyCache struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.RWMutex
	snap *Snapshot
}

// NewEmergencyCache creates an empty cache. A nil clock uses time.Now.
func NewEmergencyCache(ttl time.Duration, now func() time.Time) *EmergencyCache {
	if now == nil {
		now = time.Now
	}
	return &EmergencyCache{ttl: ttl, now: now}
}

// Name implements Provider.
func (*EmergencyCache) Name() string { return ProviderEmergency }

// Store replaces the cached results.
func (e *EmergencyCache) Store(articles []entity.ScoredArticle, runID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = &Snapshot{Articles: articles, Timestamp: e.now(), RunID: runID}
}

// Results implements Provider. Entries at least TTL old are not returned.
func (e *EmergencyCache) Results(context.Context) ([]entity.ScoredArticle, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil || e.now().Sub(e.snap.Timestamp) >= e.ttl {
		return nil, nil
	}
	return e.snap.Articles, nil
}

// OnDemandProvider runs the pipeline synchronously. Concurrent callers share
// a single run, which is detached from any one caller's cancellation.
type OnDemandProvider struct {
	runner    Runner
	emergency *EmergencyCache
	timeout   time.Duration
	group     singleflight.Group
}

// NewOnDemandProvider creates the last-resort provider. emergency may be nil.
// A positive timeout bounds each shared run.
func NewOnDemandProvider(runner Runner, emergency *EmergencyCache, timeout time.Duration) *OnDemandProvider {
	return &OnDemandProvider{runner: runner, emergency: emergency, timeout: timeout}
}

// Name implements Provider.
func (*OnDemandProvider) Name() string { return ProviderOnDemand }

// Results implements Provider. A caller whose ctx is done stops waiting but
// the shared run continues for the others.
func (p *OnDemandProvider) Results(ctx context.Context) ([]entity.ScoredArticle, error) {
	ch := p.group.DoChan("run", func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if p.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, p.timeout)
			defer cancel()
		}
		slog.Info("no cached results, running pipeline on demand")
		report, err := p.runner.Run(runCtx)
		if err != nil {
			return nil, err
		}
		if p.emergency != nil {
			p.emergency.Store(report.Articles, report.RunID)
		}
		return report.Articles, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("on-demand run shared with concurrent caller")
		}
		return res.Val.([]entity.ScoredArticle), nil
	}
}
