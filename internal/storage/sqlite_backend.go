package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteBackend(db *sql.DB) (*SQLiteBackend, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteBackend{db: db, now: time.Now}, nil
}

// OpenSQLite opens (creating if needed) the database at path and applies
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create data dir: %w", ErrStorageUnavailable, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrStorageUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: configure sqlite: %w", ErrStorageUnavailable, err)
	}
	if err := MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	backend, err := NewSQLiteBackend(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Get(ctx context.Context, slot string) (string, bool, error) {
	var payload string
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: read slot %s: %w", ErrStorageUnavailable, slot, err)
	}
	return payload, true, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, slot string, payload string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO slots (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot, payload, b.now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("%w: write slot %s: %w", ErrStorageUnavailable, slot, err)
	}
	return nil
}
