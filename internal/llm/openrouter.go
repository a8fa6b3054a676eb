package llm

import "errors"

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider is the OpenAI adapter pointed at OpenRouter. Model IDs
// are passed through untouched since they carry a vendor prefix.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider builds a client for cfg.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = openRouterBaseURL
	}
	return &OpenRouterProvider{newOpenAICompatible(cfg.APIKey, base, cfg.Model)}, nil
}
