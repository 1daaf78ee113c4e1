package config

import (
	"context"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recall/pkg/log"
)

// RAGConfig describes the embeddings endpoint. Any OpenAI-compatible API works,
// including Ollama's /v1 surface.
type RAGConfig struct {
	ModelName  string `env:"RECALL_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	BaseURL    string `env:"RECALL_EMBEDDING_BASE_URL" envDefault:"https://api.openai.com/v1"`
	APIKey     string `env:"RECALL_EMBEDDING_API_KEY"`
	Dimensions int    `env:"RECALL_EMBEDDING_DIMENSIONS" envDefault:"1536"`
	CacheSize  int64  `env:"RECALL_EMBEDDING_CACHE_SIZE" envDefault:"1024"`

	// Instruction prefixes for dual encoders such as e5 ("query: ", "passage: ").
	QueryPrefix   string `env:"RECALL_EMBEDDING_QUERY_PREFIX"`
	PassagePrefix string `env:"RECALL_EMBEDDING_PASSAGE_PREFIX"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	cfg := &RAGConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}

func (c RAGConfig) GetEmbeddingModel() string   { return c.ModelName }
func (c RAGConfig) GetEmbeddingBaseURL() string { return c.BaseURL }
func (c RAGConfig) GetEmbeddingAPIKey() string  { return c.APIKey }
func (c RAGConfig) GetEmbeddingDimensions() int { return c.Dimensions }
