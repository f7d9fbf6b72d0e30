// Package applications creates applications from job-posting URLs and reads them back.
package applications

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/jobseeker-buddy/internal/db"
	"github.com/jonathan/jobseeker-buddy/internal/scraper"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// Service scrapes job postings and records applications.
type Service struct {
	store   db.ApplicationStore
	scraper scraper.JobScraper
	logger  *slog.Logger
}

// NewService creates an application service.
func NewService(store db.ApplicationStore, s scraper.JobScraper, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, scraper: s, logger: logger}
}

// Create scrapes jobURL and stores a new application for userID with no document versions.
// Nothing is stored when scraping fails.
func (s *Service) Create(ctx context.Context, userID, jobURL string) (*types.Application, error) {
	userID = strings.TrimSpace(userID)
	jobURL = strings.TrimSpace(jobURL)
	if userID == "" {
		return nil, &types.ValidationError{Field: "user_id", Message: "is required"}
	}
	if jobURL == "" {
		return nil, &types.ValidationError{Field: "job_link", Message: "is required"}
	}

	job, err := s.scraper.Scrape(ctx, jobURL)
	if err != nil {
		return nil, err
	}

	app, err := s.store.CreateApplication(ctx, userID, jobURL, *job)
	if err != nil {
		return nil, err
	}

	s.logger.Info("application created",
		"application_id", app.ID,
		"user_id", userID,
		"company", job.Company,
		"role", job.Role,
	)
	return app, nil
}

// Get returns the application with its versions.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &types.NotFoundError{Entity: types.EntityApplication, ID: id.String()}
	}
	return app, nil
}

// Versions returns the application's document versions in creation order.
func (s *Service) Versions(ctx context.Context, id uuid.UUID) ([]types.DocumentVersion, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return app.Versions, nil
}

// List returns the user's applications, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]types.Application, error) {
	return s.store.ListApplications(ctx, userID)
}
