package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/jobseeker-buddy/internal/db"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// CreateApplication stores a new application with a generated ID.
func (s *Store) CreateApplication(ctx context.Context, userID, jobURL string, job types.JobPosting) (*types.Application, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshaling job posting: %w", err)
	}

	now := s.timestamp()
	app := &types.Application{
		ID:        uuid.New(),
		UserID:    userID,
		JobURL:    jobURL,
		Job:       job,
		Versions:  []types.DocumentVersion{},
		CreatedAt: parseTime(now),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO applications (id, user_id, job_url, job, created_at) VALUES (?, ?, ?, ?, ?)`,
		app.ID.String(), userID, jobURL, string(jobJSON), now)
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	return app, nil
}

// GetApplication returns the application with its versions, or nil when missing.
func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	app, err := scanApplication(s.db.QueryRowContext(ctx,
		`SELECT id, user_id, job_url, job, created_at FROM applications WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting application %s: %w", id, err)
	}

	app.Versions, err = s.ListVersions(ctx, id)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications returns the user's applications, newest first, without versions.
func (s *Store) ListApplications(ctx context.Context, userID string) ([]types.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, job_url, job, created_at FROM applications
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing applications for %s: %w", userID, err)
	}
	defer rows.Close()

	apps := []types.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// AppendVersion stores v with the next sequence number for the application.
func (s *Store) AppendVersion(ctx context.Context, applicationID uuid.UUID, v types.DocumentVersion) (*types.DocumentVersion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM applications WHERE id = ?`, applicationID.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %s: %w", applicationID, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking application %s: %w", applicationID, err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM document_versions WHERE application_id = ?`,
		applicationID.String()).Scan(&v.Seq)
	if err != nil {
		return nil, fmt.Errorf("reading next version: %w", err)
	}

	now := s.timestamp()
	var feedback sql.NullString
	if v.Feedback != nil {
		feedback = sql.NullString{String: *v.Feedback, Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_versions (application_id, seq, cover_letter, resume, feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		applicationID.String(), v.Seq, v.CoverLetter, v.Resume, feedback, now)
	if err != nil {
		return nil, fmt.Errorf("appending version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing version: %w", err)
	}

	v.CreatedAt = parseTime(now)
	return &v, nil
}

// ListVersions returns the application's versions in creation order.
func (s *Store) ListVersions(ctx context.Context, applicationID uuid.UUID) ([]types.DocumentVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, cover_letter, resume, feedback, created_at FROM document_versions
		 WHERE application_id = ? ORDER BY seq ASC`, applicationID.String())
	if err != nil {
		return nil, fmt.Errorf("listing versions for %s: %w", applicationID, err)
	}
	defer rows.Close()

	versions := []types.DocumentVersion{}
	for rows.Next() {
		var v types.DocumentVersion
		var feedback sql.NullString
		var created string
		if err := rows.Scan(&v.Seq, &v.CoverLetter, &v.Resume, &feedback, &created); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		if feedback.Valid {
			f := feedback.String
			v.Feedback = &f
		}
		v.CreatedAt = parseTime(created)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func scanApplication(row scanner) (*types.Application, error) {
	var app types.Application
	var id, jobJSON, created string
	if err := row.Scan(&id, &app.UserID, &app.JobURL, &jobJSON, &created); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing application id %q: %w", id, err)
	}
	app.ID = parsed
	if err := json.Unmarshal([]byte(jobJSON), &app.Job); err != nil {
		return nil, fmt.Errorf("decoding job posting: %w", err)
	}
	app.CreatedAt = parseTime(created)
	app.Versions = []types.DocumentVersion{}
	return &app, nil
}
