package rag

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/tokens"
)

// maxInputTokens is the input limit of the OpenAI embedding models.
const maxInputTokens = 8191

// Embedder turns text into vectors through an OpenAI-compatible embeddings
// endpoint. Query vectors are cached, questions repeat far more often than
// stored messages do.
type Embedder struct {
	client        openai.Client
	model         string
	dims          int
	queryPrefix   string
	passagePrefix string
	cache         *ristretto.Cache
}

func NewEmbedder(cfg *config.RAGConfig) (*Embedder, error) {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
		// entries are counted, not sized
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}

	return &Embedder{
		client:        openai.NewClient(opts...),
		model:         cfg.ModelName,
		dims:          cfg.Dimensions,
		queryPrefix:   cfg.QueryPrefix,
		passagePrefix: cfg.PassagePrefix,
		cache:         cache,
	}, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		return v.([]float32), nil
	}

	vec, err := e.embed(ctx, e.queryPrefix+text)
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, vec, 1)
	return vec, nil
}

func (e *Embedder) EmbedPassage(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, e.passagePrefix+text)
}

func (e *Embedder) Dims() int {
	return e.dims
}

func (e *Embedder) Shutdown() error {
	e.cache.Close()
	return nil
}

func (e *Embedder) embed(ctx context.Context, text string) ([]float32, error) {
	input := tokens.Truncate(text, maxInputTokens)
	if len(input) < len(text) {
		log.FromCtx(ctx).Debug().Int("chars", len(text)).Msg("embedding input truncated")
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{input}},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response has no data")
	}

	raw := resp.Data[0].Embedding
	if e.dims > 0 && len(raw) != e.dims {
		return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(raw), e.dims)
	}

	vec := make([]float32, len(raw))
	for i, f := range raw {
		vec[i] = float32(f)
	}
	return vec, nil
}
