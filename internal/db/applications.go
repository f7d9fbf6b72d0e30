package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// CreateApplication stores a new application with a generated ID and no versions
func (db *DB) CreateApplication(ctx context.Context, userID, jobURL string, job types.JobPosting) (*types.Application, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job posting: %w", err)
	}

	app := &types.Application{
		ID:       uuid.New(),
		UserID:   userID,
		JobURL:   jobURL,
		Job:      job,
		Versions: []types.DocumentVersion{},
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO applications (id, user_id, job_url, job)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		app.ID, userID, jobURL, jobJSON,
	).Scan(&app.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// GetApplication retrieves an application and its versions by ID
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_url, job, created_at FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	app.Versions, err = db.ListVersions(ctx, id)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications returns a user's applications, newest first, without versions
func (db *DB) ListApplications(ctx context.Context, userID string) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_url, job, created_at
		 FROM applications WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []types.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// AppendVersion adds a version at the end of an application's history.
// The application row is locked so concurrent appends get distinct sequence numbers.
func (db *DB) AppendVersion(ctx context.Context, applicationID uuid.UUID, v types.DocumentVersion) (*types.DocumentVersion, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM applications WHERE id = $1 FOR UPDATE`, applicationID,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("application %s: %w", applicationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock application: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO document_versions (application_id, seq, cover_letter, resume, feedback)
		 SELECT $1::uuid, COALESCE(MAX(seq) + 1, 0), $2::text, $3::text, $4::text
		 FROM document_versions WHERE application_id = $1
		 RETURNING seq, created_at`,
		applicationID, v.CoverLetter, v.Resume, v.Feedback,
	).Scan(&v.Seq, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}
	return &v, nil
}

// ListVersions returns an application's versions in creation order
func (db *DB) ListVersions(ctx context.Context, applicationID uuid.UUID) ([]types.DocumentVersion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT seq, cover_letter, resume, feedback, created_at
		 FROM document_versions WHERE application_id = $1
		 ORDER BY seq ASC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	versions := []types.DocumentVersion{}
	for rows.Next() {
		var v types.DocumentVersion
		if err := rows.Scan(&v.Seq, &v.CoverLetter, &v.Resume, &v.Feedback, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func scanApplication(row pgx.Row) (*types.Application, error) {
	var app types.Application
	var jobJSON []byte
	if err := row.Scan(&app.ID, &app.UserID, &app.JobURL, &jobJSON, &app.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jobJSON, &app.Job); err != nil {
		return nil, fmt.Errorf("failed to decode job posting: %w", err)
	}
	app.Versions = []types.DocumentVersion{}
	return &app, nil
}
