package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/rank"
)

// OpenAIScorer asks an OpenAI chat model for the three scores.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAIScorer creates a scorer from an API key. baseURL may be empty.
func NewOpenAIScorer(apiKey, model, baseURL string, timeout time.Duration) *OpenAIScorer {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIScorer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Score implements rank.Scorer.
func (o *OpenAIScorer) Score(ctx context.Context, req rank.ScoreRequest) (rank.RawScores, error) {
	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		MaxTokens:   100,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		slog.DebugContext(ctx, "openai scoring call failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return rank.RawScores{}, openAIError(err)
	}

	if len(resp.Choices) == 0 {
		return rank.RawScores{}, fmt.Errorf("%w: openai returned no choices", rank.ErrInvalidResponse)
	}
	return parseModelScores(resp.Choices[0].Message.Content)
}

// openAIError maps API status failures onto retry.HTTPError so the retry policy
// classifies them like any other HTTP dependency.
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return fmt.Errorf("openai api error: %w", err)
}
