package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/sqlite"
)

var tableSuffix = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NodeIndex keeps node rows in the nodes table and their embeddings in a vec0
// table per collection, joined on rowid.
type NodeIndex struct {
	db         *sql.DB
	embedder   core.Embedder
	collection string
	vecTable   string
}

func NewNodeIndex(ctx context.Context, db *sql.DB, embedder core.Embedder, collection string, dims int) (*NodeIndex, error) {
	if !tableSuffix.MatchString(collection) {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}

	idx := &NodeIndex{
		db:         db,
		embedder:   embedder,
		collection: collection,
		vecTable:   "vec_" + collection,
	}

	// vec0 tables cannot be declared in a migration, their width depends on the model
	stmt := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(embedding float[%d])`, idx.vecTable, dims)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return nil, fmt.Errorf("failed to create vector table: %w", err)
	}

	return idx, nil
}

func (r *NodeIndex) Index(ctx context.Context, node core.Node) error {
	emb, err := r.embedder.EmbedPassage(ctx, node.Text)
	if err != nil {
		return fmt.Errorf("failed to embed node: %w", err)
	}
	vecBlob, err := sqlite.SerializeVector(emb)
	if err != nil {
		return err
	}

	meta, err := json.Marshal(node.Metadata.Flatten())
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO nodes (collection, node_id, text, metadata, previous_id) VALUES (?, ?, ?, ?, ?)`,
		r.collection, node.ID.String(), node.Text, string(meta), node.Previous.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert node: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (rowid, embedding) VALUES (?, ?)`, r.vecTable),
		id, vecBlob,
	)
	if err != nil {
		return fmt.Errorf("failed to insert node vector: %w", err)
	}

	return tx.Commit()
}

func (r *NodeIndex) Query(ctx context.Context, text string, k int) ([]core.RetrievedNode, error) {
	if k <= 0 {
		return nil, nil
	}

	emb, err := r.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	vecBlob, err := sqlite.SerializeVector(emb)
	if err != nil {
		return nil, err
	}

	// Lower distance is closer.
	query := fmt.Sprintf(`
		SELECT n.node_id, n.text, n.metadata, n.previous_id, v.distance
		FROM (
			SELECT rowid, distance FROM %s
			WHERE embedding MATCH ? AND k = ?
		) v
		JOIN nodes n ON n.id = v.rowid
		ORDER BY v.distance
	`, r.vecTable)

	rows, err := r.db.QueryContext(ctx, query, vecBlob, k)
	if err != nil {
		return nil, fmt.Errorf("node search failed: %w", err)
	}
	defer rows.Close()

	var results []core.RetrievedNode
	for rows.Next() {
		var (
			item     core.RetrievedNode
			distance float64
		)
		node, err := scanNode(rows, &distance)
		if err != nil {
			return nil, err
		}
		item.Node = node
		item.Score = float32(1 / (1 + distance))
		results = append(results, item)
	}
	return results, rows.Err()
}

// Get loads a single node by id.
func (r *NodeIndex) Get(ctx context.Context, id core.NodeID) (core.Node, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT node_id, text, metadata, previous_id FROM nodes WHERE collection = ? AND node_id = ?`,
		r.collection, id.String(),
	)
	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Node{}, core.ErrNotFound
	}
	return node, err
}

func (r *NodeIndex) LastNodeID(ctx context.Context) (core.NodeID, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT node_id FROM nodes WHERE collection = ? ORDER BY id DESC LIMIT 1`,
		r.collection,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return core.NodeID(id), nil
}

func (r *NodeIndex) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes WHERE collection = ?`, r.collection).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(s scanner, extra ...any) (core.Node, error) {
	var (
		id, text, meta, prev string
	)
	dest := append([]any{&id, &text, &meta, &prev}, extra...)
	if err := s.Scan(dest...); err != nil {
		return core.Node{}, err
	}

	var flat map[string]string
	if err := json.Unmarshal([]byte(meta), &flat); err != nil {
		return core.Node{}, fmt.Errorf("failed to unmarshal metadata of %s: %w", id, err)
	}

	return core.Node{
		ID:       core.NodeID(id),
		Text:     text,
		Metadata: core.MetadataFromMap(flat),
		Previous: core.NodeID(prev),
	}, nil
}
