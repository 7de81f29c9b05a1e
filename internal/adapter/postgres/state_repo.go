package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"artesanal/internal/domain"
)

// SaveSnapshot upserts the whole snapshot under the key. The row is always
// rewritten in full.
func (d *DB) SaveSnapshot(ctx context.Context, key string, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO state_snapshots (key, snapshot, updated_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at",
		key, data, time.Now())
	return err
}

// LoadSnapshot returns the stored snapshot, or nil when absent.
func (d *DB) LoadSnapshot(ctx context.Context, key string) (*domain.Snapshot, error) {
	var data []byte
	err := d.sql.QueryRowContext(ctx,
		"SELECT snapshot FROM state_snapshots WHERE key = $1", key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
