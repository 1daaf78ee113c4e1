package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_Put(t *testing.T) {
	boom := errors.New("disk full")

	tests := []struct {
		name     string
		index    core.VectorIndex
		timeout  time.Duration
		wantErr  error
		wantBase error
	}{
		{name: "stores node", index: &memIndex{}},
		{name: "index failure", index: &memIndex{indexErr: boom}, wantErr: core.ErrStoreUnavailable, wantBase: boom},
		{name: "index timeout", index: blockingIndex{}, timeout: 20 * time.Millisecond, wantErr: core.ErrStoreUnavailable, wantBase: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.index, tt.timeout, nil)
			meta := core.Metadata{Who: "alice", When: "2024-01-01 10:00:00"}

			id, err := s.Put(context.Background(), "Molly is a cat", meta)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, tt.wantBase)
				assert.Empty(t, id)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			stored := tt.index.(*memIndex).byID()[id]
			assert.Equal(t, "Molly is a cat", stored.Text)
			assert.Equal(t, meta, stored.Metadata)
			assert.Empty(t, stored.Previous)
		})
	}
}

func TestStore_QueryUnavailable(t *testing.T) {
	s := NewStore(&memIndex{queryErr: errors.New("closed")}, 0, nil)
	_, err := s.Query(context.Background(), "q", 5)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestTimeline_LinkageFollowsIngestionOrder(t *testing.T) {
	idx := &memIndex{}
	tl := NewTimeline(NewStore(idx, 0, nil), "")

	var ids []core.NodeID
	for i := 0; i < 5; i++ {
		id, err := tl.Append(context.Background(), fmt.Sprintf("message %d", i), core.Metadata{})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	nodes := idx.byID()
	assert.Empty(t, nodes[ids[0]].Previous)
	for i := 1; i < len(ids); i++ {
		assert.Equal(t, ids[i-1], nodes[ids[i]].Previous, "node %d", i)
	}
	assert.Equal(t, ids[len(ids)-1], tl.Last())
}

func TestTimeline_FailedAppendKeepsCursor(t *testing.T) {
	idx := &memIndex{}
	tl := NewTimeline(NewStore(idx, 0, nil), "")

	first, err := tl.Append(context.Background(), "first", core.Metadata{})
	require.NoError(t, err)

	idx.indexErr = errors.New("down")
	_, err = tl.Append(context.Background(), "lost", core.Metadata{})
	require.ErrorIs(t, err, core.ErrStoreUnavailable)
	assert.Equal(t, first, tl.Last())

	idx.indexErr = nil
	third, err := tl.Append(context.Background(), "third", core.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, first, idx.byID()[third].Previous)
}

func TestTimeline_ConcurrentAppendsFormSingleChain(t *testing.T) {
	idx := &memIndex{}
	tl := NewTimeline(NewStore(idx, 0, nil), "")

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := tl.Append(context.Background(), fmt.Sprintf("m%d", i), core.Metadata{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// walking back from the head must visit every node exactly once
	nodes := idx.byID()
	seen := map[core.NodeID]bool{}
	for cur := tl.Last(); cur != ""; cur = nodes[cur].Previous {
		require.False(t, seen[cur], "cycle at %s", cur)
		seen[cur] = true
	}
	assert.Len(t, seen, n)
}

func TestLoadTimeline(t *testing.T) {
	idx := &memIndex{lastID: "existing"}
	store := NewStore(idx, 0, nil)

	tl := LoadTimeline(context.Background(), store, idx)
	assert.Equal(t, core.NodeID("existing"), tl.Last())

	id, err := tl.Append(context.Background(), "next", core.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, core.NodeID("existing"), idx.byID()[id].Previous)

	plain := LoadTimeline(context.Background(), store, blockingIndex{})
	assert.Empty(t, plain.Last())
}
