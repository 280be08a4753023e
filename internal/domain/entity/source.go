package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// Source represents a news feed source. Sources are managed elsewhere and
// are read-only from the point of view of the aggregation pipeline.
type Source struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	FeedURL string `json:"url" yaml:"url"`
	Active  bool   `json:"is_active" yaml:"active"`
}

// Validate checks that the source carries a name and an absolute http(s) feed URL.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	u, err := url.Parse(s.FeedURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("invalid: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "must use http or https"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "must be absolute"}
	}
	return nil
}
