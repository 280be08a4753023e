package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/rank"
)

// ClaudeScorer asks an Anthropic Claude model for the three scores.
type ClaudeScorer struct {
	client anthropic.Client
	model  string
}

// NewClaudeScorer creates a scorer from an API key. baseURL may be empty.
// The SDK's own retries are disabled; the resilience client retries instead.
func NewClaudeScorer(apiKey, model, baseURL string, timeout time.Duration) *ClaudeScorer {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &ClaudeScorer{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Score implements rank.Scorer.
func (c *ClaudeScorer) Score(ctx context.Context, req rank.ScoreRequest) (rank.RawScores, error) {
	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 100,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(req))),
		},
	})
	if err != nil {
		slog.DebugContext(ctx, "claude scoring call failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return rank.RawScores{}, claudeError(err)
	}

	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			return parseModelScores(tb.Text)
		}
	}
	return rank.RawScores{}, fmt.Errorf("%w: claude returned no text block", rank.ErrInvalidResponse)
}

func claudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
	}
	return fmt.Errorf("claude api error: %w", err)
}
