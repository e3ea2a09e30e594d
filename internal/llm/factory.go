package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/smartstudy/internal/logger"
	"github.com/abhisek/smartstudy/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with logging
// middleware. It never retries: one Generate call is one upstream request.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, eventRepo, log), nil
}

// ResolveConfig returns the SMARTSTUDY_* configuration when its selected
// provider is usable, falling back to vendor key discovery otherwise.
func ResolveConfig() Config {
	cfg := ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg
	}
	if discovered, ok := DiscoverConfig(); ok {
		return discovered
	}
	return cfg
}
