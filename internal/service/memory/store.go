package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/metrics"
)

// Store is the write side of memory. Every node goes straight to the vector
// index, reads go through Query.
type Store struct {
	index   core.VectorIndex
	timeout time.Duration
	metrics *metrics.Collector
}

func NewStore(index core.VectorIndex, timeout time.Duration, m *metrics.Collector) *Store {
	return &Store{
		index:   index,
		timeout: timeout,
		metrics: m,
	}
}

// Put stores a node without a timeline link.
func (s *Store) Put(ctx context.Context, text string, meta core.Metadata) (core.NodeID, error) {
	return s.PutLinked(ctx, text, meta, "")
}

// PutLinked stores a node pointing back at previous. Index failures are
// returned as ErrStoreUnavailable and never retried here.
func (s *Store) PutLinked(ctx context.Context, text string, meta core.Metadata, previous core.NodeID) (core.NodeID, error) {
	node := core.Node{
		ID:       core.NewNodeID(),
		Text:     text,
		Metadata: meta,
		Previous: previous,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.index.Index(ctx, node); err != nil {
		s.metrics.StoreError("index")
		return "", fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	s.metrics.NodeIndexed()
	return node.ID, nil
}

func (s *Store) Query(ctx context.Context, text string, k int) ([]core.RetrievedNode, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	nodes, err := s.index.Query(ctx, text, k)
	if err != nil {
		s.metrics.StoreError("query")
		return nil, fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	if len(nodes) > k {
		nodes = nodes[:k]
	}
	return nodes, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
