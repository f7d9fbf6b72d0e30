// Package sqlite implements the db.Store interface on an embedded SQLite
// database for single-user and local runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/jobseeker-buddy/internal/db"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id           TEXT PRIMARY KEY,
	resume_path       TEXT NOT NULL DEFAULT '',
	linkedin_path     TEXT NOT NULL DEFAULT '',
	experience_path   TEXT NOT NULL DEFAULT '',
	parsed_resume     TEXT NOT NULL DEFAULT '',
	parsed_linkedin   TEXT NOT NULL DEFAULT '',
	parsed_experience TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS applications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	job_url    TEXT NOT NULL,
	job        TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_user_id ON applications (user_id, created_at);
CREATE TABLE IF NOT EXISTS document_versions (
	application_id TEXT NOT NULL REFERENCES applications (id),
	seq            INTEGER NOT NULL,
	cover_letter   TEXT NOT NULL,
	resume         TEXT NOT NULL,
	feedback       TEXT,
	created_at     TEXT NOT NULL,
	PRIMARY KEY (application_id, seq)
);`

// Store keeps profiles, applications and versions in a SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ db.Store = (*Store)(nil)

// Open opens (or creates) the SQLite database at path and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: conn, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

type scanner interface {
	Scan(dest ...any) error
}

const profileColumns = `user_id, resume_path, linkedin_path, experience_path,
	parsed_resume, parsed_linkedin, parsed_experience, created_at, updated_at`

func scanProfile(row scanner) (*types.Profile, error) {
	var p types.Profile
	var created, updated string
	err := row.Scan(&p.UserID, &p.ResumePath, &p.LinkedInPath, &p.ExperiencePath,
		&p.ParsedResume, &p.ParsedLinkedIn, &p.ParsedExperience, &created, &updated)
	if err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = parseTime(created), parseTime(updated)
	return &p, nil
}

// GetProfile returns the user's profile, or nil when none exists.
func (s *Store) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", userID, err)
	}
	return p, nil
}

// UpsertProfile merges update into the stored profile, creating it if needed.
func (s *Store) UpsertProfile(ctx context.Context, userID string, update types.ProfileUpdate) (*types.Profile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.timestamp()
	p, err := scanProfile(tx.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		p = &types.Profile{UserID: userID, CreatedAt: parseTime(now)}
	case err != nil:
		return nil, fmt.Errorf("getting profile %s: %w", userID, err)
	}
	update.Apply(p)
	p.UpdatedAt = parseTime(now)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, resume_path, linkedin_path, experience_path,
		                       parsed_resume, parsed_linkedin, parsed_experience, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     resume_path = excluded.resume_path,
		     linkedin_path = excluded.linkedin_path,
		     experience_path = excluded.experience_path,
		     parsed_resume = excluded.parsed_resume,
		     parsed_linkedin = excluded.parsed_linkedin,
		     parsed_experience = excluded.parsed_experience,
		     updated_at = excluded.updated_at`,
		p.UserID, p.ResumePath, p.LinkedInPath, p.ExperiencePath,
		p.ParsedResume, p.ParsedLinkedIn, p.ParsedExperience,
		p.CreatedAt.UTC().Format(timeLayout), now,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting profile %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing profile %s: %w", userID, err)
	}
	return p, nil
}
