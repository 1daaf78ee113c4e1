// Package chromem is the pure Go alternative to the sqlite-vec index, backed
// by a persistent chromem-go database.
package chromem

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

// previousKey stores the timeline link next to the metadata. It is stripped
// again on the way out.
const previousKey = "_previous"

type NodeIndex struct {
	db       *chromem.DB
	col      *chromem.Collection
	embedder core.Embedder

	// chromem has no insertion order, the cursor is tracked here
	mu   sync.Mutex
	last core.NodeID
}

// NewNodeIndex opens (or creates) a persistent database at path. An empty
// path keeps everything in memory.
func NewNodeIndex(ctx context.Context, path, collection string, embedder core.Embedder) (*NodeIndex, error) {
	var (
		db  *chromem.DB
		err error
	)
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, true)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem db: %w", err)
		}
	}

	embed := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedPassage(ctx, text)
	}

	col, err := db.GetOrCreateCollection(collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", collection, err)
	}

	log.FromCtx(ctx).Debug().
		Str("collection", collection).
		Int("documents", col.Count()).
		Msg("chromem collection ready")

	return &NodeIndex{db: db, col: col, embedder: embedder}, nil
}

func (r *NodeIndex) Index(ctx context.Context, node core.Node) error {
	meta := node.Metadata.Flatten()
	if node.Previous != "" {
		meta[previousKey] = node.Previous.String()
	}

	err := r.col.AddDocument(ctx, chromem.Document{
		ID:       node.ID.String(),
		Content:  node.Text,
		Metadata: meta,
	})
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	r.mu.Lock()
	r.last = node.ID
	r.mu.Unlock()
	return nil
}

func (r *NodeIndex) Query(ctx context.Context, text string, k int) ([]core.RetrievedNode, error) {
	// chromem rejects n larger than the collection
	if n := r.col.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	emb, err := r.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	res, err := r.col.QueryEmbedding(ctx, emb, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]core.RetrievedNode, 0, len(res))
	for _, doc := range res {
		out = append(out, core.RetrievedNode{
			Node: core.Node{
				ID:       core.NodeID(doc.ID),
				Text:     doc.Content,
				Metadata: core.MetadataFromMap(doc.Metadata, previousKey),
				Previous: core.NodeID(doc.Metadata[previousKey]),
			},
			Score: doc.Similarity,
		})
	}
	return out, nil
}

// LastNodeID only knows about nodes indexed by this process, chromem keeps no
// insertion order on disk.
func (r *NodeIndex) LastNodeID(_ context.Context) (core.NodeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, nil
}

func (r *NodeIndex) Count() int {
	return r.col.Count()
}
