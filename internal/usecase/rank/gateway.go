package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/observability/tracing"
	"newsdesk/internal/resilience"
	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/utils/text"
)

// RankStats summarizes one Rank call.
type RankStats struct {
	Requested  int           `json:"requested"`
	Considered int           `json:"considered"`
	CacheHits  int           `json:"cache_hits"`
	Scored     int           `json:"scored"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// Gateway ranks articles through a Scorer. Calls are sequential and paced.
type Gateway struct {
	scorer Scorer
	client *resilience.Client
	cache  *AnalysisCache
	pacer  Pacer
	cfg    Config
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithPacer replaces the default GapPacer.
func WithPacer(p Pacer) Option {
	return func(g *Gateway) { g.pacer = p }
}

// WithCache replaces the analysis cache built from the configuration.
func WithCache(c *AnalysisCache) Option {
	return func(g *Gateway) { g.cache = c }
}

// NewGateway creates a ranking gateway. client should be the registry's
// ranking-api client.
func NewGateway(scorer Scorer, client *resilience.Client, cfg Config, opts ...Option) *Gateway {
	g := &Gateway{
		scorer: scorer,
		client: client,
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.cache == nil {
		g.cache = NewAnalysisCache(cfg.CacheSize, cfg.CacheTTL)
	}
	if g.pacer == nil {
		g.pacer = NewGapPacer(cfg.Pacing)
	}
	return g
}

// Cache exposes the analysis cache.
func (g *Gateway) Cache() *AnalysisCache {
	return g.cache
}

// Rank scores at most BatchSize articles and returns them ordered by composite
// score, highest first. Articles whose scoring fails are omitted.
func (g *Gateway) Rank(ctx context.Context, articles []entity.Article) ([]entity.ScoredArticle, *RankStats) {
	ctx, span := tracing.GetTracer().Start(ctx, "rank.Rank")
	defer span.End()

	logger := slog.Default()
	start := time.Now()
	stats := &RankStats{Requested: len(articles)}

	batch := articles
	if g.cfg.BatchSize > 0 && len(batch) > g.cfg.BatchSize {
		batch = batch[:g.cfg.BatchSize]
	}
	stats.Considered = len(batch)

	scored := make([]entity.ScoredArticle, 0, len(batch))
	breakerOpen := false
	for _, article := range batch {
		if scores, ok := g.cache.Get(article.Title, article.SourceName); ok {
			metrics.RecordAnalysisCacheLookup(true)
			stats.CacheHits++
			scored = append(scored, entity.NewScoredArticle(article, scores))
			continue
		}
		metrics.RecordAnalysisCacheLookup(false)

		if breakerOpen || ctx.Err() != nil {
			stats.Failed++
			continue
		}

		scores, err := g.score(ctx, article)
		if err != nil {
			stats.Failed++
			if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
				breakerOpen = true
			}
			logger.Warn("article scoring failed, omitting article",
				slog.String("article_id", article.ID),
				slog.String("source", article.SourceName),
				slog.Any("error", err))
			continue
		}

		g.cache.Put(article.Title, article.SourceName, scores)
		stats.Scored++
		scored = append(scored, entity.NewScoredArticle(article, scores))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Composite > scored[j].Composite
	})
	stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("considered", stats.Considered),
		attribute.Int("cache_hits", stats.CacheHits),
		attribute.Int("failed", stats.Failed),
	)
	logger.Info("ranking completed",
		slog.Int("requested", stats.Requested),
		slog.Int("considered", stats.Considered),
		slog.Int("cache_hits", stats.CacheHits),
		slog.Int("scored", stats.Scored),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))

	return scored, stats
}

// score waits for the pacer and performs one resilient scoring call.
func (g *Gateway) score(ctx context.Context, article entity.Article) (entity.Scores, error) {
	if err := g.pacer.Wait(ctx); err != nil {
		return entity.Scores{}, fmt.Errorf("%w: pacing: %v", ErrScoringFailed, err)
	}

	req := g.request(article)
	start := time.Now()
	raw, err := resilience.Do(ctx, g.client, func(ctx context.Context) (RawScores, error) {
		return g.scorer.Score(ctx, req)
	})
	g.pacer.Done()
	metrics.RecordRankingCall(err == nil, time.Since(start))
	if err != nil {
		return entity.Scores{}, fmt.Errorf("%w: %w", ErrScoringFailed, err)
	}
	return entity.NewScores(raw.Relevance, raw.Impact, raw.Sentiment), nil
}

func (g *Gateway) request(article entity.Article) ScoreRequest {
	snippet := strings.TrimSpace(article.Snippet)
	if snippet == "" {
		snippet = text.StripHTML(article.Content)
	}
	return ScoreRequest{
		Title:          article.Title,
		ContentSnippet: text.Truncate(snippet, g.cfg.SnippetLength),
		PubDate:        article.PublishedAt,
		SourceName:     article.SourceName,
	}
}
