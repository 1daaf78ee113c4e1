package chromem

import (
	"context"
	"testing"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeIndex_RoundTrip(t *testing.T) {
	ctx := test.Ctx(t)
	idx, err := NewNodeIndex(ctx, "", "messages", test.NewHashEmbedder(32))
	require.NoError(t, err)

	empty, err := idx.Query(ctx, "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	molly := core.Node{
		ID:       core.NewNodeID(),
		Text:     "Molly is a cat",
		Metadata: core.Metadata{Who: "alice", When: "2024-01-01 10:00:00"},
	}
	doug := core.Node{
		ID:       core.NewNodeID(),
		Text:     "Doug is a dog",
		Metadata: core.Metadata{Who: "bob", When: "2024-01-02 10:00:00"},
		Previous: molly.ID,
	}
	require.NoError(t, idx.Index(ctx, molly))
	require.NoError(t, idx.Index(ctx, doug))

	got, err := idx.Query(ctx, "Doug is a dog", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, doug, got[0].Node)
	assert.Equal(t, molly, got[1].Node)

	last, err := idx.LastNodeID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doug.ID, last)
	assert.Equal(t, 2, idx.Count())
}

func TestNodeIndex_Persistent(t *testing.T) {
	ctx := test.Ctx(t)
	dir := t.TempDir()
	emb := test.NewHashEmbedder(16)

	idx, err := NewNodeIndex(ctx, dir, "messages", emb)
	require.NoError(t, err)
	node := core.Node{ID: core.NewNodeID(), Text: "standup moved to 11", Metadata: core.Metadata{Who: "carol"}}
	require.NoError(t, idx.Index(ctx, node))

	reopened, err := NewNodeIndex(ctx, dir, "messages", emb)
	require.NoError(t, err)

	got, err := reopened.Query(ctx, "standup moved to 11", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, node, got[0].Node)
}
