package repository

import (
	"context"

	"newsdesk/internal/domain/entity"
)

// SourceRepository provides the feed sources of the aggregation pipeline.
// Sources are maintained elsewhere; the pipeline only reads them.
type SourceRepository interface {
	ListActive(ctx context.Context) ([]*entity.Source, error)
}
