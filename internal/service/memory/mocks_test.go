package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/recall/internal/core"
)

// memIndex returns stored nodes in insertion order, scoring them all 1.
type memIndex struct {
	mu       sync.Mutex
	nodes    []core.Node
	indexErr error
	queryErr error
	lastID   core.NodeID
}

func (m *memIndex) Index(ctx context.Context, node core.Node) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = append(m.nodes, node)
	return nil
}

func (m *memIndex) Query(ctx context.Context, text string, k int) ([]core.RetrievedNode, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.RetrievedNode
	for _, n := range m.nodes {
		if len(out) == k {
			break
		}
		out = append(out, core.RetrievedNode{Node: n, Score: 1})
	}
	return out, nil
}

func (m *memIndex) LastNodeID(ctx context.Context) (core.NodeID, error) {
	return m.lastID, nil
}

func (m *memIndex) byID() map[core.NodeID]core.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[core.NodeID]core.Node, len(m.nodes))
	for _, n := range m.nodes {
		out[n.ID] = n
	}
	return out
}

// blockingIndex waits for the context to end.
type blockingIndex struct{}

func (blockingIndex) Index(ctx context.Context, node core.Node) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingIndex) Query(ctx context.Context, text string, k int) ([]core.RetrievedNode, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockCompleter struct {
	mu       sync.Mutex
	prompts  []string
	response string
	err      error
	block    bool
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type retrievalConfig struct {
	topK    int
	dateKey string
}

func (c retrievalConfig) GetTopK() int                   { return c.topK }
func (c retrievalConfig) GetDateKey() string             { return c.dateKey }
func (c retrievalConfig) GetStoreTimeout() time.Duration { return 0 }
func (c retrievalConfig) GetLocation() *time.Location    { return time.UTC }
