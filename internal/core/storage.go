package core

import "context"

// VectorIndex embeds and stores nodes and runs similarity search over them.
// Query returns at most k results ordered by descending score, each carrying
// the stored metadata unmodified.
type VectorIndex interface {
	Index(ctx context.Context, node Node) error
	Query(ctx context.Context, text string, k int) ([]RetrievedNode, error)
}

// TimelineSource is implemented by indexes that can report the most recently
// stored node, so the timeline survives restarts.
type TimelineSource interface {
	LastNodeID(ctx context.Context) (NodeID, error)
}
