package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// envPrefix namespaces the explicit provider settings.
const envPrefix = "SOLARQUIZ_"

// ErrNotConfigured is returned when no provider settings or vendor API keys
// are present in the environment.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use. One of the Provider*
	// constants.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Points the client at a compatible API.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the cheap, fast model of each vendor.
// Question generation is short and structured; it does not need more.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// modelAliases lets config name a model family instead of a snapshot.
var modelAliases = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"gpt-mini":      "gpt-4o-mini",
	"gemini-flash":  "gemini-2.5-flash",
	"gemini-pro":    "gemini-2.5-pro",
}

// resolveModel expands an alias; anything else is taken as a model ID.
func resolveModel(name string) string {
	if id, ok := modelAliases[name]; ok {
		return id
	}
	return name
}

// envVar returns SOLARQUIZ_<name>.
func envVar(name string) string {
	return envPrefix + name
}

// ConfigFromEnv builds a Config from SOLARQUIZ_* variables. ok is false
// when SOLARQUIZ_LLM_PROVIDER is unset.
func ConfigFromEnv() (cfg Config, ok bool) {
	cfg = DefaultConfig()

	p := os.Getenv(envVar("LLM_PROVIDER"))
	if p == "" {
		return cfg, false
	}
	cfg.Provider = p

	setFromEnv(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")
	setFromEnv(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setFromEnv(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "GEMINI_MODEL")
	setFromEnv(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "OPENROUTER_MODEL")

	if d := os.Getenv(envVar("LLM_TIMEOUT")); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			cfg.Timeout = parsed
		}
	}
	return cfg, true
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(envVar(name)); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes the vendors' own API key variables in priority
// order (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first one set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// ResolveConfig prefers explicit SOLARQUIZ_* settings and falls back to
// vendor key discovery.
func ResolveConfig() (Config, error) {
	if cfg, ok := ConfigFromEnv(); ok {
		return cfg, cfg.Validate()
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, cfg.Validate()
	}
	return Config{}, ErrNotConfigured
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, name string
	switch c.Provider {
	case ProviderAnthropic:
		key, name = c.Anthropic.APIKey, "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, name = c.OpenAI.APIKey, "OPENAI_API_KEY"
	case ProviderGemini:
		key, name = c.Gemini.APIKey, "GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, name = c.OpenRouter.APIKey, "OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", envVar(name), c.Provider)
	}
	return nil
}
