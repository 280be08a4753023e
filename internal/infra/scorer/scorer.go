// Package scorer provides the scoring backends used by the ranking gateway:
// a plain HTTP scoring service, OpenAI and Claude chat models, and a neutral
// no-op scorer for local runs.
package scorer

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"newsdesk/internal/pkg/config"
	"newsdesk/internal/usecase/rank"
)

// Backend types accepted by SCORER_TYPE.
const (
	TypeNoop   = "noop"
	TypeHTTP   = "http"
	TypeOpenAI = "openai"
	TypeClaude = "claude"
)

var configMetrics = config.NewConfigMetrics("scorer")

// Config selects and configures a scoring backend.
type Config struct {
	Type    string
	URL     string
	Timeout time.Duration

	OpenAIAPIKey string
	OpenAIModel  string

	AnthropicAPIKey string
	ClaudeModel     string
}

// DefaultConfig returns the no-op backend configuration.
func DefaultConfig() Config {
	return Config{
		Type:        TypeNoop,
		Timeout:     30 * time.Second,
		OpenAIModel: "gpt-4o-mini",
		ClaudeModel: string(anthropic.ModelClaudeSonnet4_5_20250929),
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Type {
	case TypeNoop:
	case TypeHTTP:
		if err := config.ValidateHTTPURL(c.URL); err != nil {
			return fmt.Errorf("scorer url: %w", err)
		}
	case TypeOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for scorer type %q", c.Type)
		}
	case TypeClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for scorer type %q", c.Type)
		}
	default:
		return fmt.Errorf("unknown scorer type %q", c.Type)
	}
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("scorer timeout: %w", err)
	}
	return nil
}

// LoadConfigFromEnv reads the scorer configuration.
//
// Environment variables:
//   - SCORER_TYPE: noop, http, openai or claude (default: noop)
//   - SCORER_URL: endpoint for the http backend
//   - SCORER_TIMEOUT: per-call timeout (default: 30s)
//   - OPENAI_API_KEY, OPENAI_MODEL
//   - ANTHROPIC_API_KEY, CLAUDE_MODEL
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()
	l := config.NewLoader(logger, configMetrics)

	cfg.Type = l.String("Type", "SCORER_TYPE", cfg.Type, config.OneOf(TypeNoop, TypeHTTP, TypeOpenAI, TypeClaude))
	cfg.URL = l.String("URL", "SCORER_URL", cfg.URL, config.ValidateHTTPURL)
	cfg.Timeout = l.Duration("Timeout", "SCORER_TIMEOUT", cfg.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 5*time.Minute)
	})
	cfg.OpenAIAPIKey = l.String("OpenAIAPIKey", "OPENAI_API_KEY", "", nil)
	cfg.OpenAIModel = l.String("OpenAIModel", "OPENAI_MODEL", cfg.OpenAIModel, nil)
	cfg.AnthropicAPIKey = l.String("AnthropicAPIKey", "ANTHROPIC_API_KEY", "", nil)
	cfg.ClaudeModel = l.String("ClaudeModel", "CLAUDE_MODEL", cfg.ClaudeModel, nil)

	l.Done()
	return cfg
}

// New builds the configured backend.
func New(cfg Config) (rank.Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case TypeHTTP:
		return NewHTTPScorer(&http.Client{Timeout: cfg.Timeout}, cfg.URL), nil
	case TypeOpenAI:
		return NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel, "", cfg.Timeout), nil
	case TypeClaude:
		return NewClaudeScorer(cfg.AnthropicAPIKey, cfg.ClaudeModel, "", cfg.Timeout), nil
	default:
		return NewNoop(), nil
	}
}
