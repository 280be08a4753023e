package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/rank"
)

const maxResponseBytes = 64 << 10

// HTTPScorer calls a dedicated scoring service with
// POST {title, contentSnippet, pubDate, sourceName} → {relevance, impact, sentiment}.
type HTTPScorer struct {
	client   *http.Client
	endpoint string
}

// NewHTTPScorer creates a scorer for the given endpoint URL.
func NewHTTPScorer(client *http.Client, endpoint string) *HTTPScorer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPScorer{client: client, endpoint: endpoint}
}

// Score implements rank.Scorer. Non-2xx responses become *retry.HTTPError.
func (s *HTTPScorer) Score(ctx context.Context, req rank.ScoreRequest) (rank.RawScores, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return rank.RawScores{}, fmt.Errorf("encode score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return rank.RawScores{}, fmt.Errorf("build score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return rank.RawScores{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return rank.RawScores{}, fmt.Errorf("read score response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rank.RawScores{}, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(body)),
		}
	}

	var sb scoreBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return rank.RawScores{}, fmt.Errorf("%w: %v", rank.ErrInvalidResponse, err)
	}
	return sb.toRaw()
}
