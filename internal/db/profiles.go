package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

const profileColumns = `user_id, resume_path, linkedin_path, experience_path,
	parsed_resume, parsed_linkedin, parsed_experience, created_at, updated_at`

func scanProfile(row pgx.Row) (*types.Profile, error) {
	var p types.Profile
	err := row.Scan(&p.UserID, &p.ResumePath, &p.LinkedInPath, &p.ExperiencePath,
		&p.ParsedResume, &p.ParsedLinkedIn, &p.ParsedExperience, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfile retrieves a profile by user ID
func (db *DB) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpsertProfile inserts a profile or merges the provided fields into the existing one.
// Fields left nil in update keep their stored value.
func (db *DB) UpsertProfile(ctx context.Context, userID string, update types.ProfileUpdate) (*types.Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, resume_path, linkedin_path, experience_path,
		                       parsed_resume, parsed_linkedin, parsed_experience)
		 VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::text, ''),
		         COALESCE($5::text, ''), COALESCE($6::text, ''), COALESCE($7::text, ''))
		 ON CONFLICT (user_id) DO UPDATE SET
		     resume_path       = COALESCE($2::text, profiles.resume_path),
		     linkedin_path     = COALESCE($3::text, profiles.linkedin_path),
		     experience_path   = COALESCE($4::text, profiles.experience_path),
		     parsed_resume     = COALESCE($5::text, profiles.parsed_resume),
		     parsed_linkedin   = COALESCE($6::text, profiles.parsed_linkedin),
		     parsed_experience = COALESCE($7::text, profiles.parsed_experience),
		     updated_at        = NOW()
		 RETURNING `+profileColumns,
		userID, update.ResumePath, update.LinkedInPath, update.ExperiencePath,
		update.ParsedResume, update.ParsedLinkedIn, update.ParsedExperience,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}
