package translate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/doctrans/internal/cache"
)

// Backend names accepted by NewFactory.
const (
	BackendGoogle = "google"
	BackendClaude = "claude"
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// BackendConfig selects and configures the translation service.
type BackendConfig struct {
	Name      string
	Timeout   time.Duration
	GoogleURL string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiAPIKey string
	GeminiModel  string

	// MaxChars splits longer sentences before they reach the backend.
	// Zero disables splitting.
	MaxChars int
}

// NewFactory returns a constructor producing one independent client per
// call, wrapped with the cache and stats layers when given.
func NewFactory(ctx context.Context, cfg BackendConfig, store cache.Store, stats *Stats, log *slog.Logger) (func() (Translator, error), error) {
	var base func() (Translator, error)
	switch cfg.Name {
	case "", BackendGoogle:
		base = func() (Translator, error) {
			return NewGoogleClient(cfg.GoogleURL, cfg.Timeout), nil
		}
	case BackendClaude:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("claude backend needs ANTHROPIC_API_KEY")
		}
		base = func() (Translator, error) {
			return NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, cfg.Timeout), nil
		}
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai backend needs OPENAI_API_KEY")
		}
		base = func() (Translator, error) {
			c, err := NewOpenAIClient(ctx, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	case BackendGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini backend needs GEMINI_API_KEY")
		}
		base = func() (Translator, error) {
			c, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	default:
		return nil, fmt.Errorf("unknown translation backend %q", cfg.Name)
	}

	return func() (Translator, error) {
		t, err := base()
		if err != nil {
			return nil, err
		}
		return Cached(Instrumented(Chunked(t, cfg.MaxChars), stats), store, log), nil
	}, nil
}
