// Package sqlite implements the durable form outbox on a local SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"artesanal/internal/domain"
)

// schemaVersion is stored in PRAGMA user_version; bump it when the outbox
// schema changes shape.
const schemaVersion = 1

// Outbox persists queued form submissions in SQLite.
type Outbox struct {
	sqlDB *sql.DB
}

var _ domain.OutboxRepository = (*Outbox)(nil)

// Open opens the outbox database, creating the schema on first use.
func Open(path string) (*Outbox, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("outbox path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open outbox db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping outbox db: %w", err)
	}
	if err := migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Outbox{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (o *Outbox) Close() error {
	if o == nil || o.sqlDB == nil {
		return nil
	}
	return o.sqlDB.Close()
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS outbox (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			data BLOB NOT NULL,
			queued_at INTEGER NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_outbox_kind ON outbox(kind);",
		fmt.Sprintf("PRAGMA user_version = %d;", schemaVersion),
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate outbox: %w", err)
		}
	}
	return nil
}

// Enqueue appends a form record and returns its auto-assigned id. There is
// no capacity limit; the queue grows while deliveries fail.
func (o *Outbox) Enqueue(ctx context.Context, kind domain.FormKind, data json.RawMessage) (int64, error) {
	res, err := o.sqlDB.ExecContext(ctx,
		"INSERT INTO outbox (kind, data, queued_at) VALUES (?, ?, ?)",
		string(kind), []byte(data), time.Now().UTC().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Pending returns the queued records of a kind in enqueue order.
func (o *Outbox) Pending(ctx context.Context, kind domain.FormKind) ([]domain.OutboxRecord, error) {
	rows, err := o.sqlDB.QueryContext(ctx,
		"SELECT id, kind, data, queued_at FROM outbox WHERE kind = ? ORDER BY id", string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OutboxRecord
	for rows.Next() {
		var rec domain.OutboxRecord
		var k string
		var queuedAt int64
		if err := rows.Scan(&rec.ID, &k, (*[]byte)(&rec.Data), &queuedAt); err != nil {
			return nil, err
		}
		rec.Kind = domain.FormKind(k)
		rec.QueuedAt = time.UnixMilli(queuedAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes the record with the given id.
func (o *Outbox) Delete(ctx context.Context, id int64) error {
	_, err := o.sqlDB.ExecContext(ctx, "DELETE FROM outbox WHERE id = ?", id)
	return err
}
