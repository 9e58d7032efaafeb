package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/smartmcq/internal/store"
)

// ErrNotConfigured means no provider credentials were found.
var ErrNotConfigured = errors.New("LLM provider not configured")

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo != nil {
		base = WithLogging(base, cfg.Provider, eventRepo)
	}
	return WithRetry(base, cfg.Retry), nil
}

// NewProviderFromEnv configures a provider from SMARTMCQ_* variables, or
// from the vendors' standard key variables when SMARTMCQ_LLM_PROVIDER is
// unset. It returns ErrNotConfigured when neither yields credentials.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, Config, error) {
	cfg := ConfigFromEnv()
	if os.Getenv("SMARTMCQ_LLM_PROVIDER") == "" && cfg.Validate() != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, Config{}, ErrNotConfigured
		}
		cfg = discovered
	}
	p, err := NewProvider(ctx, cfg, eventRepo)
	if err != nil {
		return nil, Config{}, err
	}
	return p, cfg, nil
}
