// Package bootstrap assembles the refresh pipeline from environment
// configuration. Both binaries build on it.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"newsdesk/internal/infra/adapter/persistence/file"
	"newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/infra/scorer"
	"newsdesk/internal/infra/scraper"
	"newsdesk/internal/repository"
	"newsdesk/internal/resilience"
	"newsdesk/internal/usecase/fetch"
	"newsdesk/internal/usecase/rank"
	"newsdesk/internal/usecase/recency"
	"newsdesk/internal/usecase/refresh"
	"newsdesk/internal/utils/datetime"
	envconfig "newsdesk/pkg/config"
)

// ErrNoSourceStore is returned when neither SOURCES_FILE nor DATABASE_URL is set.
var ErrNoSourceStore = errors.New("no source store configured: set SOURCES_FILE or DATABASE_URL")

// Components is everything a binary needs to run or serve the pipeline.
type Components struct {
	Registry *resilience.Registry
	Pipeline *refresh.Pipeline
	Refresh  refresh.Config
	// DB is nil when sources come from a file.
	DB *sql.DB
}

// Close releases the database pool, if any.
func (c *Components) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

// OpenSources selects the source store: SOURCES_FILE wins over DATABASE_URL.
// With a database, migrations run unless RUN_MIGRATIONS=false.
func OpenSources(ctx context.Context, logger *slog.Logger) (repository.SourceRepository, *sql.DB, error) {
	if path := envconfig.GetEnvString("SOURCES_FILE", ""); path != "" {
		logger.Info("loading sources from file", slog.String("path", path))
		return file.NewSourceRepo(path), nil, nil
	}

	dsn := envconfig.GetEnvString("DATABASE_URL", "")
	if dsn == "" {
		return nil, nil, ErrNoSourceStore
	}
	database, err := db.Open(ctx, dsn, db.LoadConnectionConfigFromEnv(logger))
	if err != nil {
		return nil, nil, err
	}
	if envconfig.GetEnvBool("RUN_MIGRATIONS", true) {
		if err := db.MigrateUp(ctx, database); err != nil {
			_ = database.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return postgres.NewSourceRepo(database), database, nil
}

// Build loads every configuration section and wires the pipeline.
func Build(ctx context.Context, logger *slog.Logger) (*Components, error) {
	sources, database, err := OpenSources(ctx, logger)
	if err != nil {
		return nil, err
	}

	scorerCfg := scorer.LoadConfigFromEnv(logger)
	sc, err := scorer.New(scorerCfg)
	if err != nil {
		if database != nil {
			_ = database.Close()
		}
		return nil, fmt.Errorf("scorer: %w", err)
	}

	fetchCfg := fetch.LoadConfigFromEnv(logger)
	rankCfg := rank.LoadConfigFromEnv(logger)
	refreshCfg := refresh.LoadConfigFromEnv(logger)

	registry := resilience.NewRegistry(resilience.DefaultProfiles())

	fetcher := fetch.NewService(
		scraper.NewRSSFetcher(&http.Client{}),
		registry.Client(resilience.ServiceRSSFeeds),
		datetime.NewNormalizer(),
		fetchCfg,
	)
	gateway := rank.NewGateway(sc, registry.Client(resilience.ServiceRankingAPI), rankCfg)

	pipeline := refresh.NewPipeline(
		sources,
		registry.Client(resilience.ServiceSourceStore),
		fetcher,
		recency.NewFilter(nil, 0),
		gateway,
	)

	logger.Info("pipeline configured",
		slog.String("scorer", scorerCfg.Type),
		slog.Duration("fetch_timeout", fetchCfg.Timeout),
		slog.Int("rank_batch_size", rankCfg.BatchSize),
		slog.Duration("rank_pacing", rankCfg.Pacing),
		slog.Duration("cache_ttl", refreshCfg.TTL),
		slog.Bool("database", database != nil))

	return &Components{
		Registry: registry,
		Pipeline: pipeline,
		Refresh:  refreshCfg,
		DB:       database,
	}, nil
}
