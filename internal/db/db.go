// Package db provides PostgreSQL storage for profiles, applications and
// their document versions.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// ErrNotFound is returned by writes that target a record that does not exist.
// Reads return (nil, nil) for missing records instead.
var ErrNotFound = errors.New("record not found")

// ProfileStore persists user profiles.
type ProfileStore interface {
	// GetProfile returns nil, nil when the user has no profile.
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	// UpsertProfile creates the profile or merges the non-nil fields of update into it.
	UpsertProfile(ctx context.Context, userID string, update types.ProfileUpdate) (*types.Profile, error)
}

// ApplicationStore persists applications and their append-only version history.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, userID, jobURL string, job types.JobPosting) (*types.Application, error)
	// GetApplication returns the application with its versions, or nil, nil when missing.
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	ListApplications(ctx context.Context, userID string) ([]types.Application, error)
	VersionStore
}

// VersionStore is the append-only document version log of an application.
type VersionStore interface {
	// AppendVersion assigns the next sequence number atomically and stores v.
	// It returns ErrNotFound when the application does not exist.
	AppendVersion(ctx context.Context, applicationID uuid.UUID, v types.DocumentVersion) (*types.DocumentVersion, error)
	// ListVersions returns versions in creation order.
	ListVersions(ctx context.Context, applicationID uuid.UUID) ([]types.DocumentVersion, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	ProfileStore
	ApplicationStore
	Close() error
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}
