package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recall/pkg/log"
)

type LLMConfig struct {
	Provider  string `env:"RECALL_LLM_PROVIDER" envDefault:"openai"`
	Model     string `env:"RECALL_LLM_MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens int    `env:"RECALL_LLM_MAX_TOKENS" envDefault:"1024"`

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	CustomBaseURL    string `env:"RECALL_CUSTOM_BASE_URL"`
	CustomAPIKey     string `env:"RECALL_CUSTOM_API_KEY"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func (c LLMConfig) GetProvider() string         { return c.Provider }
func (c LLMConfig) GetModel() string            { return c.Model }
func (c LLMConfig) GetMaxTokens() int           { return c.MaxTokens }
func (c LLMConfig) GetAnthropicAPIKey() string  { return c.AnthropicAPIKey }
func (c LLMConfig) GetOpenAIAPIKey() string     { return c.OpenAIAPIKey }
func (c LLMConfig) GetOpenRouterAPIKey() string { return c.OpenRouterAPIKey }
func (c LLMConfig) GetOllamaBaseURL() string    { return c.OllamaBaseURL }
func (c LLMConfig) GetCustomBaseURL() string    { return c.CustomBaseURL }
func (c LLMConfig) GetCustomAPIKey() string     { return c.CustomAPIKey }
