package memory

import (
	"context"
	"sync"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

// Timeline owns the cursor of the ingestion stream. Appends are serialized so
// each node links to the one stored right before it, and the cursor only
// moves once the write succeeded.
type Timeline struct {
	mu    sync.Mutex
	store *Store
	last  core.NodeID
}

func NewTimeline(store *Store, last core.NodeID) *Timeline {
	return &Timeline{store: store, last: last}
}

// LoadTimeline resumes from the newest stored node when the index can tell.
func LoadTimeline(ctx context.Context, store *Store, index core.VectorIndex) *Timeline {
	src, ok := index.(core.TimelineSource)
	if !ok {
		return NewTimeline(store, "")
	}

	last, err := src.LastNodeID(ctx)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to load timeline head, starting a new chain")
		return NewTimeline(store, "")
	}
	if last != "" {
		log.FromCtx(ctx).Debug().Str("node_id", last.String()).Msg("timeline resumed")
	}
	return NewTimeline(store, last)
}

func (t *Timeline) Append(ctx context.Context, text string, meta core.Metadata) (core.NodeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.store.PutLinked(ctx, text, meta, t.last)
	if err != nil {
		return "", err
	}
	t.last = id
	return id, nil
}

func (t *Timeline) Last() core.NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
