package llm

import (
	"context"
	"fmt"

	"quiz-risk-service/internal/logger"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.ProviderConfig)
	case "openai":
		base, err = NewOpenAIProvider(cfg.ProviderConfig)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.ProviderConfig)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	return WithRetry(WithLogging(base, log), retry), nil
}
