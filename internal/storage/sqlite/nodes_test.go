package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDims = 32

func newTestIndex(t *testing.T) (*NodeIndex, *test.HashEmbedder) {
	t.Helper()
	ctx := test.Ctx(t)

	db, err := NewDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	emb := test.NewHashEmbedder(testDims)
	idx, err := NewNodeIndex(ctx, db, emb, "messages", testDims)
	require.NoError(t, err)
	return idx, emb
}

func TestNodeIndex_RoundTrip(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	molly := core.Node{
		ID:       core.NewNodeID(),
		Text:     "Molly is a cat",
		Metadata: core.Metadata{Who: "alice", When: "2024-01-01 10:00:00"},
	}
	doug := core.Node{
		ID:       core.NewNodeID(),
		Text:     "Doug is a dog",
		Metadata: core.Metadata{Who: "bob", When: "2024-01-02 10:00:00", Extra: map[string]string{"channel": "C1"}},
		Previous: molly.ID,
	}
	require.NoError(t, idx.Index(ctx, molly))
	require.NoError(t, idx.Index(ctx, doug))

	got, err := idx.Query(ctx, "Doug is a dog", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, doug, got[0].Node)
	assert.Greater(t, got[0].Score, got[1].Score)
	assert.InDelta(t, 1.0, got[0].Score, 1e-4)
}

func TestNodeIndex_QueryLimit(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three", "four"} {
		require.NoError(t, idx.Index(ctx, core.Node{ID: core.NewNodeID(), Text: text}))
	}

	tests := []struct {
		name string
		k    int
		want int
	}{
		{name: "fewer than stored", k: 2, want: 2},
		{name: "more than stored", k: 10, want: 4},
		{name: "zero", k: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Query(ctx, "one", tt.k)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestNodeIndex_LastNodeIDAndGet(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	last, err := idx.LastNodeID(ctx)
	require.NoError(t, err)
	assert.Empty(t, last)

	first := core.Node{ID: core.NewNodeID(), Text: "first"}
	second := core.Node{ID: core.NewNodeID(), Text: "second", Previous: first.ID}
	require.NoError(t, idx.Index(ctx, first))
	require.NoError(t, idx.Index(ctx, second))

	last, err = idx.LastNodeID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, last)

	got, err := idx.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.Previous)

	_, err = idx.Get(ctx, core.NodeID("missing"))
	assert.True(t, errors.Is(err, core.ErrNotFound))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewNodeIndex_Validation(t *testing.T) {
	ctx := test.Ctx(t)
	db, err := NewDB(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	emb := test.NewHashEmbedder(testDims)

	_, err = NewNodeIndex(ctx, db, emb, "Bad-Name", testDims)
	assert.Error(t, err)

	_, err = NewNodeIndex(ctx, db, emb, "messages", 0)
	assert.Error(t, err)
}
