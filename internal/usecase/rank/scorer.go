package rank

import (
	"context"
	"time"
)

// ScoreRequest is what the scoring service sees of an article.
type ScoreRequest struct {
	Title          string     `json:"title"`
	ContentSnippet string     `json:"contentSnippet"`
	PubDate        *time.Time `json:"pubDate,omitempty"`
	SourceName     string     `json:"sourceName"`
}

// RawScores are the unvalidated values returned by a scoring backend.
// They are clamped to [0,100] by the gateway.
type RawScores struct {
	Relevance float64 `json:"relevance"`
	Impact    float64 `json:"impact"`
	Sentiment float64 `json:"sentiment"`
}

// Scorer is implemented by every scoring backend.
type Scorer interface {
	Score(ctx context.Context, req ScoreRequest) (RawScores, error)
}
