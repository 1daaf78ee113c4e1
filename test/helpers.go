// Package test holds fakes shared by package tests and the integration suite.
package test

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sandevgo/recall/internal/core"
)

// Ctx returns a context carrying a logger that writes to the test output.
func Ctx(t *testing.T) context.Context {
	t.Helper()
	l := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return l.WithContext(context.Background())
}

// HashEmbedder maps text to a normalized bag-of-words vector. Identical texts
// get identical vectors, texts sharing words land close to each other.
type HashEmbedder struct {
	Dims int

	mu    sync.Mutex
	Calls int
}

func NewHashEmbedder(dims int) *HashEmbedder {
	return &HashEmbedder{Dims: dims}
}

func (h *HashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return h.embed(text), nil
}

func (h *HashEmbedder) EmbedPassage(_ context.Context, text string) ([]float32, error) {
	return h.embed(text), nil
}

func (h *HashEmbedder) embed(text string) []float32 {
	h.mu.Lock()
	h.Calls++
	h.mu.Unlock()

	vec := make([]float32, h.Dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		f := fnv.New32a()
		_, _ = f.Write([]byte(strings.Trim(w, ".,!?")))
		vec[f.Sum32()%uint32(h.Dims)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	n := float32(math.Sqrt(norm))
	for i := range vec {
		vec[i] /= n
	}
	return vec
}

var _ core.Embedder = (*HashEmbedder)(nil)
