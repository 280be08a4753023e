package scorer

import (
	"context"

	"newsdesk/internal/usecase/rank"
)

// Noop returns neutral scores without calling anything. Used for local runs.
type Noop struct{}

// NewNoop creates a Noop scorer.
func NewNoop() *Noop {
	return &Noop{}
}

// Score implements rank.Scorer.
func (Noop) Score(context.Context, rank.ScoreRequest) (rank.RawScores, error) {
	return rank.RawScores{Relevance: 50, Impact: 50, Sentiment: 50}, nil
}
