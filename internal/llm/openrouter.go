package llm

import "errors"

const openRouterURL = "https://openrouter.ai/api/v1"

var openRouterAliases = map[string]string{
	"gemini-flash": "google/gemini-2.0-flash-001",
	"claude-haiku": "anthropic/claude-haiku-4.5",
	"gpt-4o-mini":  "openai/gpt-4o-mini",
}

// NewOpenRouterProvider returns an OpenAI-compatible provider pointed at
// OpenRouter. Short aliases map to OpenRouter model slugs.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = openRouterURL
	}
	return NewOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(cfg.Model, openRouterAliases),
		BaseURL: base,
	})
}
