// Package digest exposes the ranked digest, its cache status and the state of
// the outbound circuit breakers over HTTP.
package digest

import (
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/resilience/circuitbreaker"
)

// ArticleDTO is one ranked article in a digest response.
type ArticleDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Snippet     string     `json:"snippet,omitempty"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at"`
	Relevance   int        `json:"relevance"`
	Impact      int        `json:"impact"`
	Sentiment   int        `json:"sentiment"`
	Composite   int        `json:"composite"`
}

// Response is the body of GET /digest.
type Response struct {
	Provider    string       `json:"provider"`
	Count       int          `json:"count"`
	GeneratedAt time.Time    `json:"generated_at"`
	Articles    []ArticleDTO `json:"articles"`
}

// RefreshResponse is the body of POST /digest/refresh.
type RefreshResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// ResilienceResponse is the body of GET /resilience/status.
type ResilienceResponse struct {
	Services []circuitbreaker.Status `json:"services"`
}

func toDTO(a entity.ScoredArticle) ArticleDTO {
	return ArticleDTO{
		ID:          a.ID,
		Title:       a.Title,
		Link:        a.Link,
		Snippet:     a.Snippet,
		Source:      a.SourceName,
		PublishedAt: a.PublishedAt,
		Relevance:   a.Relevance,
		Impact:      a.Impact,
		Sentiment:   a.Sentiment,
		Composite:   a.Composite,
	}
}
