// Package db opens the Postgres connection pool backing the source store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"newsdesk/internal/pkg/config"
)

var configMetrics = config.NewConfigMetrics("db")

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
// The pipeline issues one source query per refresh, so the pool stays small.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// LoadConnectionConfigFromEnv reads pool settings, falling back to defaults
// for invalid values.
//
// Environment variables:
//   - DB_MAX_OPEN_CONNS: integer 1-100 (default: 5)
//   - DB_MAX_IDLE_CONNS: integer 0-100 (default: 2)
//   - DB_CONN_MAX_LIFETIME: duration (default: 1h)
//   - DB_CONN_MAX_IDLE_TIME: duration (default: 30m)
func LoadConnectionConfigFromEnv(logger *slog.Logger) ConnectionConfig {
	cfg := DefaultConnectionConfig()
	l := config.NewLoader(logger, configMetrics)

	cfg.MaxOpenConns = l.Int("MaxOpenConns", "DB_MAX_OPEN_CONNS", cfg.MaxOpenConns, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.MaxIdleConns = l.Int("MaxIdleConns", "DB_MAX_IDLE_CONNS", cfg.MaxIdleConns, func(v int) error {
		return config.ValidateIntRange(v, 0, 100)
	})
	cfg.ConnMaxLifetime = l.Duration("ConnMaxLifetime", "DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime, config.ValidatePositiveDuration)
	cfg.ConnMaxIdleTime = l.Duration("ConnMaxIdleTime", "DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime, config.ValidatePositiveDuration)

	l.Done()
	return cfg
}

// Open creates a connection pool for dsn, applies cfg and verifies the
// connection with a ping.
func Open(ctx context.Context, dsn string, cfg ConnectionConfig) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open database: empty DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	Configure(db, cfg)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection established",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))
	return db, nil
}

// Configure applies the pool settings to db.
func Configure(db *sql.DB, cfg ConnectionConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}
