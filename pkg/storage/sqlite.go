package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    saved_at   TEXT NOT NULL
)`

// SQLite stores msgpack snapshots in a local database file, one row per key.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path, key string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "mkdir db dir")
		}
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open sqlite %s", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "apply schema")
	}
	return &SQLite{db: db, key: key}, nil
}

// Load reads the row for the key.
func (s *SQLite) Load(ctx context.Context) (*hierarchy.Enterprise, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, s.key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, notFound("sqlite", s.key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "select snapshot %s", s.key)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return checked(snap.Enterprise, "sqlite")
}

// Save upserts the row for the key.
func (s *SQLite) Save(ctx context.Context, e *hierarchy.Enterprise) error {
	now := time.Now().UTC()
	data, err := encodeSnapshot(Snapshot{Enterprise: e, SavedAt: now})
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO snapshots (key, data, saved_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
    `, s.key, data, now.Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "upsert snapshot %s", s.key)
	}
	return nil
}

// Clear deletes the row for the key.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, s.key); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete snapshot %s", s.key)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Name returns "sqlite".
func (s *SQLite) Name() string { return "sqlite" }

// Ensure SQLite implements Backend.
var _ Backend = (*SQLite)(nil)
