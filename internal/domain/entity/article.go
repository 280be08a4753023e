// Package entity defines the core domain entities of the aggregation pipeline.
// It contains feed sources, normalized articles, and scored articles, along with
// the scoring rules and domain-specific errors.
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"
)

// Article represents a normalized article produced from a single feed item.
// PublishedAt is nil when the source timestamp was missing or rejected.
type Article struct {
	ID          string
	Title       string
	Link        string
	PublishedAt *time.Time
	Content     string
	Snippet     string
	SourceName  string
}

// ArticleID derives a stable identifier from the article's link, title and source,
// so the same feed item maps to the same ID across refresh cycles.
func ArticleID(sourceName, link, title string) string {
	h := sha256.New()
	h.Write([]byte(sourceName))
	h.Write([]byte{0})
	h.Write([]byte(link))
	h.Write([]byte{0})
	h.Write([]byte(title))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Score weights for the composite ranking.
const (
	RelevanceWeight = 0.4
	ImpactWeight    = 0.4
	SentimentWeight = 0.2

	MinScore = 0
	MaxScore = 100
)

// Scores holds the three dimensions returned by the scoring service.
// All values are within [MinScore, MaxScore].
type Scores struct {
	Relevance int `json:"relevance"`
	Impact    int `json:"impact"`
	Sentiment int `json:"sentiment"`
}

// NewScores builds Scores from raw service values, rounding and clamping each one.
func NewScores(relevance, impact, sentiment float64) Scores {
	return Scores{
		Relevance: ClampScore(relevance),
		Impact:    ClampScore(impact),
		Sentiment: ClampScore(sentiment),
	}
}

// ClampScore rounds v and clamps it to [MinScore, MaxScore]. NaN maps to MinScore.
func ClampScore(v float64) int {
	if math.IsNaN(v) {
		return MinScore
	}
	r := math.Round(v)
	if r < MinScore {
		return MinScore
	}
	if r > MaxScore {
		return MaxScore
	}
	return int(r)
}

// Composite returns round(0.4*relevance + 0.4*impact + 0.2*sentiment).
func (s Scores) Composite() int {
	v := RelevanceWeight*float64(s.Relevance) +
		ImpactWeight*float64(s.Impact) +
		SentimentWeight*float64(s.Sentiment)
	return ClampScore(v)
}

// ScoredArticle is an Article annotated with its ranking scores.
type ScoredArticle struct {
	Article
	Scores
	Composite int
}

// NewScoredArticle attaches scores to an article and computes the composite.
func NewScoredArticle(a Article, s Scores) ScoredArticle {
	return ScoredArticle{
		Article:   a,
		Scores:    s,
		Composite: s.Composite(),
	}
}
