package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

// Provider is what the rest of recall needs from a language model backend.
type Provider interface {
	core.Completer
	core.ModelLister
}

// NewProvider creates the completer selected by configuration.
func NewProvider(ctx context.Context, cfg core.ProviderConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.GetProvider()).
		Str("model", cfg.GetModel()).
		Msg("starting llm provider")

	switch cfg.GetProvider() {
	case ProviderOpenAI:
		return NewOpenAI(cfg.GetOpenAIAPIKey(), cfg.GetModel(), cfg.GetMaxTokens()), nil
	case ProviderAnthropic:
		return NewAnthropic(cfg.GetAnthropicAPIKey(), cfg.GetModel(), cfg.GetMaxTokens()), nil
	case ProviderOpenRouter:
		return NewOpenRouter(cfg.GetOpenRouterAPIKey(), cfg.GetModel(), cfg.GetMaxTokens()), nil
	case ProviderOllama:
		return NewOllama(cfg.GetOllamaBaseURL(), cfg.GetModel(), cfg.GetMaxTokens()), nil
	case ProviderCustom:
		if cfg.GetCustomBaseURL() == "" {
			return nil, fmt.Errorf("custom provider needs a base url")
		}
		return NewCustom(cfg.GetCustomBaseURL(), cfg.GetCustomAPIKey(), cfg.GetModel(), cfg.GetMaxTokens()), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.GetProvider())
	}
}
