package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry and
// request logging. eventRepo may be nil to skip the request log.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini, nil)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	log.Info("llm provider ready", zap.String("provider", cfg.Provider), zap.String("model", base.ModelID()))

	// Each attempt is logged; the timeout covers all of them.
	p := WithLogging(base, cfg.Provider, eventRepo, log)
	p = WithRetry(p, cfg.Retry, log)
	return WithTimeout(p, cfg.Timeout), nil
}

// NewProviderFromEnv resolves configuration from the environment and builds
// the provider. It returns ErrNotConfigured when nothing is set.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo, log)
}
