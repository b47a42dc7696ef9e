package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var gooseMu sync.Mutex

func MigrateUp(ctx context.Context, db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.UpContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		return nil
	})
}

func MigrateDown(ctx context.Context, db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.DownToContext(ctx, db, "migrations", 0); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		return nil
	})
}

// goose keeps its FS and dialect in package globals.
func withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn()
}
