package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema change.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded migrations in application order.
func Migrations() ([]Migration, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(entries)

	out := make([]Migration, 0, len(entries))
	for _, path := range entries {
		data, err := migrationFiles.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", path, err)
		}
		out = append(out, Migration{Name: strings.TrimPrefix(path, "migrations/"), SQL: string(data)})
	}
	return out, nil
}

// Migrate applies every embedded migration not yet recorded in schema_migrations.
// It returns the names of the migrations it applied.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	_, err := db.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
		     name       TEXT PRIMARY KEY,
		     applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		 )`)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range migrations {
		tx, err := db.pool.Begin(ctx)
		if err != nil {
			return applied, fmt.Errorf("failed to begin transaction: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, m.Name)
		if err != nil {
			_ = tx.Rollback(ctx)
			return applied, fmt.Errorf("failed to record migration %s: %w", m.Name, err)
		}
		if tag.RowsAffected() == 0 {
			_ = tx.Rollback(ctx)
			continue
		}

		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			_ = tx.Rollback(ctx)
			return applied, fmt.Errorf("failed to apply migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return applied, fmt.Errorf("failed to commit migration %s: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}
	return applied, nil
}
