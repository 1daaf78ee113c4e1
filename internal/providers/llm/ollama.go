package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sandevgo/recall/internal/core"
)

// Ollama serves chat through its OpenAI-compatible surface but lists models
// through the native tags endpoint.
type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, model string, maxTokens int) *Ollama {
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:   baseURL,
			Model:     model,
			MaxTokens: maxTokens,
		}),
	}
}

func (o *Ollama) Models(ctx context.Context) ([]core.Model, error) {
	resp, err := o.doRequest(ctx, http.MethodGet, "/api/tags", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}

	models := make([]core.Model, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, core.Model{ID: m.Name, Name: m.Name})
	}
	return models, nil
}
