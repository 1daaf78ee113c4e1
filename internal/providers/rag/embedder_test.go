package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/recall/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

func newEmbeddingServer(t *testing.T, vec []float64, inputs *[]string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/embeddings", r.URL.Path)

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*inputs = append(*inputs, req.Input...)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vec},
			},
			"usage": map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbedder(t *testing.T) {
	tests := []struct {
		name      string
		dims      int
		vec       []float64
		call      func(e *Embedder) ([]float32, error)
		wantInput string
		want      []float32
		wantErr   bool
	}{
		{
			name: "query gets query prefix",
			dims: 3,
			vec:  []float64{0.1, 0.2, 0.3},
			call: func(e *Embedder) ([]float32, error) {
				return e.EmbedQuery(context.Background(), "where is doug")
			},
			wantInput: "query: where is doug",
			want:      []float32{0.1, 0.2, 0.3},
		},
		{
			name: "passage gets passage prefix",
			dims: 2,
			vec:  []float64{1, 0},
			call: func(e *Embedder) ([]float32, error) {
				return e.EmbedPassage(context.Background(), "doug is on vacation")
			},
			wantInput: "passage: doug is on vacation",
			want:      []float32{1, 0},
		},
		{
			name: "dimension mismatch",
			dims: 4,
			vec:  []float64{1, 0},
			call: func(e *Embedder) ([]float32, error) {
				return e.EmbedPassage(context.Background(), "x")
			},
			wantInput: "passage: x",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inputs []string
			var calls int32
			srv := newEmbeddingServer(t, tt.vec, &inputs, &calls)

			e, err := NewEmbedder(&config.RAGConfig{
				ModelName:     "test-embed",
				BaseURL:       srv.URL,
				APIKey:        "test",
				Dimensions:    tt.dims,
				CacheSize:     16,
				QueryPrefix:   "query: ",
				PassagePrefix: "passage: ",
			})
			require.NoError(t, err)
			defer e.Shutdown()

			got, err := tt.call(e)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.InDeltaSlice(t, tt.want, got, 1e-6)
			}
			assert.Equal(t, []string{tt.wantInput}, inputs)
		})
	}
}

func TestEmbedder_QueryCache(t *testing.T) {
	var inputs []string
	var calls int32
	srv := newEmbeddingServer(t, []float64{0.5, 0.5}, &inputs, &calls)

	e, err := NewEmbedder(&config.RAGConfig{
		ModelName:  "test-embed",
		BaseURL:    srv.URL,
		APIKey:     "test",
		Dimensions: 2,
		CacheSize:  16,
	})
	require.NoError(t, err)
	defer e.Shutdown()

	_, err = e.EmbedQuery(context.Background(), "same question")
	require.NoError(t, err)

	// ristretto applies sets asynchronously
	e.cache.Wait()
	time.Sleep(10 * time.Millisecond)

	_, err = e.EmbedQuery(context.Background(), "same question")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
