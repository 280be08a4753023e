package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/observability/tracing"
	"newsdesk/internal/resilience"
	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/utils/datetime"
)

// FeedFetcher is an interface for fetching RSS/Atom feeds from a URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// FeedItem represents a single item from an RSS/Atom feed, before normalization.
type FeedItem struct {
	Title   string
	Link    string
	Content string
	Snippet string
	// RawPublished is the feed's own published (or updated) string, unparsed.
	RawPublished string
}

// SourceFailure describes one source that produced no articles in a run.
type SourceFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// FetchStats contains statistics about one FetchAll call.
type FetchStats struct {
	Sources   int             `json:"sources"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Items     int             `json:"items"`
	Dropped   int             `json:"dropped"`
	Undated   int             `json:"undated"`
	Failures  []SourceFailure `json:"failures,omitempty"`
	Duration  time.Duration   `json:"duration"`
}

// Service fetches every active source concurrently. A failing or slow source
// never affects the others.
type Service struct {
	fetcher    FeedFetcher
	client     *resilience.Client
	normalizer *datetime.Normalizer
	cfg        Config
}

// NewService creates a fetch Service. Every feed request goes through client,
// which should be the registry's rss-feeds client.
func NewService(fetcher FeedFetcher, client *resilience.Client, normalizer *datetime.Normalizer, cfg Config) *Service {
	if normalizer == nil {
		normalizer = datetime.NewNormalizer()
	}
	return &Service{
		fetcher:    fetcher,
		client:     client,
		normalizer: normalizer,
		cfg:        cfg,
	}
}

type sourceResult struct {
	articles []entity.Article
	dropped  int
	undated  int
	err      error
}

// FetchAll fetches all active sources and returns their normalized articles in
// source order. Per-source failures are logged and counted in the stats.
func (s *Service) FetchAll(ctx context.Context, sources []*entity.Source) ([]entity.Article, *FetchStats) {
	ctx, span := tracing.GetTracer().Start(ctx, "fetch.FetchAll")
	defer span.End()

	logger := slog.Default()
	start := time.Now()

	active := make([]*entity.Source, 0, len(sources))
	for _, src := range sources {
		if src != nil && src.Active {
			active = append(active, src)
		}
	}
	stats := &FetchStats{Sources: len(active)}
	results := make([]sourceResult, len(active))

	var eg errgroup.Group
	if s.cfg.MaxConcurrency > 0 {
		eg.SetLimit(s.cfg.MaxConcurrency)
	}
	for i, src := range active {
		eg.Go(func() error {
			results[i] = s.fetchSource(ctx, src)
			return nil
		})
	}
	_ = eg.Wait()

	seen := make(map[string]struct{})
	var articles []entity.Article
	for i, res := range results {
		src := active[i]
		if res.err != nil {
			stats.Failed++
			stats.Failures = append(stats.Failures, SourceFailure{Source: src.Name, Error: res.err.Error()})
			continue
		}
		stats.Succeeded++
		stats.Dropped += res.dropped
		stats.Undated += res.undated
		for _, a := range res.articles {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			articles = append(articles, a)
		}
	}
	stats.Items = len(articles)
	stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("sources", stats.Sources),
		attribute.Int("failed", stats.Failed),
		attribute.Int("items", stats.Items),
	)
	if stats.Sources > 0 && stats.Failed == stats.Sources {
		span.SetStatus(codes.Error, "all sources failed")
	}

	logger.Info("feed fetch completed",
		slog.Int("sources", stats.Sources),
		slog.Int("succeeded", stats.Succeeded),
		slog.Int("failed", stats.Failed),
		slog.Int("items", stats.Items),
		slog.Int("dropped", stats.Dropped),
		slog.Duration("duration", stats.Duration))

	return articles, stats
}

func (s *Service) fetchSource(ctx context.Context, src *entity.Source) sourceResult {
	logger := slog.Default()
	start := time.Now()

	items, err := resilience.Do(ctx, s.client, func(ctx context.Context) ([]FeedItem, error) {
		reqCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
		return s.fetcher.Fetch(reqCtx, src.FeedURL)
	})
	metrics.RecordFeedFetch(src.Name, time.Since(start))
	if err != nil {
		metrics.RecordFeedFetchError(src.Name, classify(err))
		logger.Warn("failed to fetch feed",
			slog.Int64("source_id", src.ID),
			slog.String("source", src.Name),
			slog.String("feed_url", src.FeedURL),
			slog.Any("error", err))
		return sourceResult{err: fmt.Errorf("%w: %w", ErrFeedFetchFailed, err)}
	}

	res := sourceResult{articles: make([]entity.Article, 0, len(items))}
	for _, item := range items {
		article, err := s.normalize(src, item)
		if err != nil {
			res.dropped++
			continue
		}
		if article.PublishedAt == nil {
			res.undated++
		}
		res.articles = append(res.articles, article)
	}
	metrics.RecordArticlesFetched(src.Name, len(res.articles))

	if res.dropped > 0 {
		logger.Debug("dropped unparseable feed items",
			slog.String("source", src.Name),
			slog.Int("dropped", res.dropped))
	}
	return res
}

// normalize converts a feed item into an Article. Items with neither title
// nor link carry nothing to rank and are rejected with entity.ErrParse.
func (s *Service) normalize(src *entity.Source, item FeedItem) (entity.Article, error) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" && link == "" {
		return entity.Article{}, entity.ErrParse
	}
	return entity.Article{
		ID:          entity.ArticleID(src.Name, link, title),
		Title:       title,
		Link:        link,
		PublishedAt: s.normalizer.Normalize(item.RawPublished),
		Content:     item.Content,
		Snippet:     item.Snippet,
		SourceName:  src.Name,
	}, nil
}

func classify(err error) string {
	var httpErr *retry.HTTPError
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrInvalidFeedFormat):
		return "invalid_format"
	case errors.As(err, &httpErr):
		if httpErr.Retryable() {
			return "http_transient"
		}
		return "http_permanent"
	default:
		return "fetch_failed"
	}
}
