// Package refresh keeps a ranked digest available at all times. A single
// Orchestrator runs the fetch, filter and rank pipeline on a schedule, publishes
// each successful result as an immutable snapshot, and never lets two runs
// overlap. Chain layers the emergency and on-demand fallbacks on top of it.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/observability/tracing"
)

// Snapshot is one published pipeline result. It is never mutated after publication.
type Snapshot struct {
	Articles  []entity.ScoredArticle
	Timestamp time.Time
	RunID     string
}

// Status reports the state of the background cache.
type Status struct {
	HasCache                bool       `json:"has_cache"`
	LastUpdated             *time.Time `json:"last_updated"`
	IsProcessing            bool       `json:"is_processing"`
	MinutesSinceLastRefresh *int       `json:"minutes_since_last_refresh"`
}

// Orchestrator owns the background cache and the exclusive refresh executor.
type Orchestrator struct {
	runner Runner
	cfg    Config
	now    func() time.Time
	loc    *time.Location

	mu         sync.Mutex
	processing atomic.Bool
	scheduled  atomic.Bool
	snapshot   atomic.Pointer[Snapshot]
	wg         sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLocation sets the time zone of the scheduler.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) { o.loc = loc }
}

// NewOrchestrator creates an orchestrator with an empty cache.
func NewOrchestrator(runner Runner, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner: runner,
		cfg:    cfg,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Refresh runs the pipeline once and publishes the result. If a refresh is
// already running it returns ErrRefreshInProgress immediately. A failed run
// leaves the previous snapshot in place.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	if !o.mu.TryLock() {
		slog.Info("refresh skipped, previous run still in progress")
		metrics.RecordRefreshRun("skipped", 0)
		return ErrRefreshInProgress
	}
	defer o.mu.Unlock()

	o.processing.Store(true)
	defer o.processing.Store(false)

	return o.refreshLocked(ctx)
}

// refreshLocked runs the pipeline. The caller holds mu.
func (o *Orchestrator) refreshLocked(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	ctx, span := tracing.GetTracer().Start(ctx, "refresh.Refresh")
	defer span.End()

	start := time.Now()
	slog.Info("refresh started")

	report, err := o.runner.Run(ctx)
	duration := time.Since(start)
	runID := ""
	if report != nil {
		runID = report.RunID
	}
	span.SetAttributes(attribute.String("run_id", runID))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordRefreshRun("failure", duration)
		attrs := []any{
			slog.String("run_id", runID),
			slog.Duration("duration", duration),
			slog.Any("error", err),
		}
		if snap := o.snapshot.Load(); snap != nil {
			attrs = append(attrs, slog.Time("serving_snapshot_from", snap.Timestamp))
		}
		slog.Error("refresh failed, keeping previous snapshot", attrs...)
		return err
	}

	snap := &Snapshot{
		Articles:  report.Articles,
		Timestamp: o.now(),
		RunID:     report.RunID,
	}
	o.snapshot.Store(snap)

	metrics.RecordRefreshRun("success", duration)
	metrics.UpdateCacheAge(0)
	slog.Info("refresh completed",
		slog.String("run_id", runID),
		slog.Int("articles", len(snap.Articles)),
		slog.Duration("duration", duration))
	return nil
}

// TriggerImmediateRefresh starts a refresh in the background and returns
// without waiting for it. It reports false, and does nothing, while a refresh
// is already running. The executor is claimed before it returns, so of two
// concurrent triggers only one reports true.
func (o *Orchestrator) TriggerImmediateRefresh() bool {
	if !o.mu.TryLock() {
		slog.Info("manual refresh ignored, refresh already in progress")
		return false
	}
	o.processing.Store(true)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.mu.Unlock()
		defer o.processing.Store(false)
		if err := o.refreshLocked(context.Background()); err != nil {
			slog.Debug("manual refresh returned error", slog.Any("error", err))
		}
	}()
	return true
}

func (o *Orchestrator) launch(ctx context.Context) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
			slog.Debug("background refresh returned error", slog.Any("error", err))
		}
	}()
}

// Wait blocks until every background refresh started so far has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// CachedResults returns the ranked articles of the current snapshot, or nil
// when there is none or it is at least TTL old.
func (o *Orchestrator) CachedResults() []entity.ScoredArticle {
	snap := o.snapshot.Load()
	if snap == nil || len(snap.Articles) == 0 {
		return nil
	}
	if o.now().Sub(snap.Timestamp) >= o.cfg.TTL {
		return nil
	}
	return snap.Articles
}

// Snapshot returns the last published snapshot regardless of its age.
func (o *Orchestrator) Snapshot() *Snapshot {
	return o.snapshot.Load()
}

// CacheStatus reports whether a snapshot exists, when it was taken and
// whether a refresh is running.
func (o *Orchestrator) CacheStatus() Status {
	st := Status{IsProcessing: o.processing.Load()}
	snap := o.snapshot.Load()
	if snap == nil {
		return st
	}
	age := o.now().Sub(snap.Timestamp)
	minutes := int(age / time.Minute)
	ts := snap.Timestamp
	st.HasCache = len(snap.Articles) > 0
	st.LastUpdated = &ts
	st.MinutesSinceLastRefresh = &minutes
	metrics.UpdateCacheAge(age)
	return st
}

// Scheduled reports whether Run has started the periodic scheduler.
func (o *Orchestrator) Scheduled() bool {
	return o.scheduled.Load()
}

// Run starts a warm-up refresh and then one refresh every TTL until ctx is
// done. It waits for in-flight refreshes before returning.
func (o *Orchestrator) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(o.loc))
	if _, err := c.AddFunc(o.cfg.Schedule(), func() { o.launch(ctx) }); err != nil {
		return err
	}

	o.launch(ctx)
	c.Start()
	o.scheduled.Store(true)
	slog.Info("refresh scheduler started",
		slog.String("schedule", o.cfg.Schedule()),
		slog.String("timezone", o.loc.String()))

	<-ctx.Done()

	o.scheduled.Store(false)
	<-c.Stop().Done()
	o.Wait()
	slog.Info("refresh scheduler stopped")
	return nil
}
