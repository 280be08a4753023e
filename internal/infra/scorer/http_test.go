package scorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/rank"
)

func TestHTTPScorer_Score(t *testing.T) {
	published := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"relevance": 81.6, "impact": 40, "sentiment": 12}`))
	}))
	defer server.Close()

	s := NewHTTPScorer(server.Client(), server.URL)
	scores, err := s.Score(context.Background(), rank.ScoreRequest{
		Title:          "Rates held",
		ContentSnippet: "The central bank...",
		PubDate:        &published,
		SourceName:     "Wire",
	})

	require.NoError(t, err)
	assert.Equal(t, rank.RawScores{Relevance: 81.6, Impact: 40, Sentiment: 12}, scores)
	assert.Equal(t, "Rates held", got["title"])
	assert.Equal(t, "The central bank...", got["contentSnippet"])
	assert.Equal(t, "2025-06-15T10:00:00Z", got["pubDate"])
	assert.Equal(t, "Wire", got["sourceName"])
}

func TestHTTPScorer_Score_StatusErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantRetryable: true},
		{name: "bad gateway", status: http.StatusBadGateway, wantRetryable: true},
		{name: "bad request", status: http.StatusBadRequest, wantRetryable: false},
		{name: "unauthorized", status: http.StatusUnauthorized, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream says no", tt.status)
			}))
			defer server.Close()

			_, err := NewHTTPScorer(nil, server.URL).Score(context.Background(), rank.ScoreRequest{Title: "t"})

			var httpErr *retry.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, "upstream says no", httpErr.Message)
			assert.Equal(t, tt.wantRetryable, retry.IsRetryable(err))
		})
	}
}

func TestHTTPScorer_Score_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "missing field", body: `{"relevance": 1, "impact": 2}`},
		{name: "wrong type", body: `{"relevance": "high", "impact": 2, "sentiment": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewHTTPScorer(nil, server.URL).Score(context.Background(), rank.ScoreRequest{Title: "t"})

			assert.ErrorIs(t, err, rank.ErrInvalidResponse)
			assert.False(t, retry.IsRetryable(err))
		})
	}
}
