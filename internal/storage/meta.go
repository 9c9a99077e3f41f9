package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arcanum-labs/deckforge/internal/meta"
)

// MetaRepository persists fetched meta snapshots so a fresh process can
// serve the last known good snapshot before its first fetch completes.
type MetaRepository struct {
	conn *sql.DB
}

// keepSnapshots bounds the table; older rows are pruned on save.
const keepSnapshots = 10

// SaveSnapshot stores a snapshot and prunes old rows beyond the retention
// bound.
func (r *MetaRepository) SaveSnapshot(ctx context.Context, s *meta.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx,
		`INSERT INTO meta_snapshots (source, fetched_at, payload) VALUES (?, ?, ?)`,
		s.Source, s.FetchedAt, string(payload),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx,
		`DELETE FROM meta_snapshots WHERE id NOT IN
		 (SELECT id FROM meta_snapshots ORDER BY fetched_at DESC LIMIT ?)`,
		keepSnapshots,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently fetched snapshot, or nil when
// none has been stored yet.
func (r *MetaRepository) LatestSnapshot(ctx context.Context) (*meta.Snapshot, error) {
	var payload string
	err := r.conn.QueryRowContext(ctx,
		`SELECT payload FROM meta_snapshots ORDER BY fetched_at DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	var snapshot meta.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}
