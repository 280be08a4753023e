package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

func (repo *SourceRepo) ListActive(ctx context.Context) ([]*entity.Source, error) {
	const query = `
SELECT id, name, feed_url, active
FROM sources
WHERE active = TRUE
ORDER BY id ASC`
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_active_sources", time.Since(start)) }()

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		var src entity.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.FeedURL, &src.Active); err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		sources = append(sources, &src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	return sources, nil
}
