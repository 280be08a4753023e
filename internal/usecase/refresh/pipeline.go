package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/tracing"
	"newsdesk/internal/repository"
	"newsdesk/internal/resilience"
	"newsdesk/internal/usecase/fetch"
	"newsdesk/internal/usecase/rank"
	"newsdesk/internal/usecase/recency"
)

// Fetcher fetches and normalizes articles from a set of sources.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []*entity.Source) ([]entity.Article, *fetch.FetchStats)
}

// Ranker scores a batch of articles and orders them by composite score.
type Ranker interface {
	Rank(ctx context.Context, articles []entity.Article) ([]entity.ScoredArticle, *rank.RankStats)
}

// Runner executes one full pipeline run.
type Runner interface {
	Run(ctx context.Context) (*Report, error)
}

// Report describes one pipeline run.
type Report struct {
	RunID    string                 `json:"run_id"`
	Started  time.Time              `json:"started"`
	Duration time.Duration          `json:"duration"`
	Fetch    *fetch.FetchStats      `json:"fetch,omitempty"`
	Window   time.Duration          `json:"window"`
	Fallback bool                   `json:"window_fallback"`
	Selected int                    `json:"selected"`
	Rank     *rank.RankStats        `json:"rank,omitempty"`
	Articles []entity.ScoredArticle `json:"articles"`
}

// Pipeline wires sources, fetching, recency filtering and ranking into one run.
type Pipeline struct {
	sources      repository.SourceRepository
	sourceClient *resilience.Client
	fetcher      Fetcher
	filter       *recency.Filter
	ranker       Ranker
	now          func() time.Time
}

// NewPipeline creates a pipeline. sourceClient guards the source repository.
func NewPipeline(
	sources repository.SourceRepository,
	sourceClient *resilience.Client,
	fetcher Fetcher,
	filter *recency.Filter,
	ranker Ranker,
) *Pipeline {
	return &Pipeline{
		sources:      sources,
		sourceClient: sourceClient,
		fetcher:      fetcher,
		filter:       filter,
		ranker:       ranker,
		now:          time.Now,
	}
}

// Run loads the active sources, fetches them concurrently, selects the most
// recent articles and ranks them. A run with zero scored articles fails with
// ErrNoArticles.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Started: p.now()}

	ctx, span := tracing.GetTracer().Start(ctx, "refresh.Pipeline.Run")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", report.RunID))

	logger := slog.Default().With(slog.String("run_id", report.RunID))

	sources, err := resilience.Do(ctx, p.sourceClient, p.sources.ListActive)
	if err != nil {
		span.RecordError(err)
		return report, fmt.Errorf("%w: %w", ErrSourcesUnavailable, err)
	}

	articles, fetchStats := p.fetcher.FetchAll(ctx, sources)
	report.Fetch = fetchStats

	selection := p.filter.Apply(articles, p.now())
	report.Window = selection.Window
	report.Fallback = selection.Fallback
	report.Selected = len(selection.Articles)
	logger.Info("recency window selected",
		slog.Int("candidates", len(articles)),
		slog.Int("selected", report.Selected),
		slog.Duration("window", selection.Window),
		slog.Bool("fallback", selection.Fallback))

	scored, rankStats := p.ranker.Rank(ctx, selection.Articles)
	report.Rank = rankStats
	report.Articles = scored
	report.Duration = p.now().Sub(report.Started)

	span.SetAttributes(
		attribute.Int("selected", report.Selected),
		attribute.Int("scored", len(scored)),
	)

	if len(scored) == 0 {
		return report, ErrNoArticles
	}
	return report, nil
}
