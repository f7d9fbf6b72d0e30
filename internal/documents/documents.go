// Package documents generates and revises the cover letter and resume of an
// application. Every successful call appends exactly one version to the
// application's history; failed calls append nothing.
package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobseeker-buddy/internal/db"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// Event names a step of a generation request
type Event string

const (
	EventStarted     Event = "started"
	EventCoverLetter Event = "cover_letter"
	EventResume      Event = "resume"
	EventSaved       Event = "saved"
)

// Progress is reported to a ProgressFunc as a request advances.
type Progress struct {
	Event         Event     `json:"event"`
	ApplicationID uuid.UUID `json:"application_id"`
	Version       *int      `json:"version,omitempty"` // set on EventSaved
	ElapsedMS     int64     `json:"elapsed_ms"`
}

// ProgressFunc receives progress events. Calls are serialized.
type ProgressFunc func(Progress)

// Options tunes generation.
type Options struct {
	// Tier is the model tier used for both documents. Defaults to llm.TierAdvanced.
	Tier llm.ModelTier
	// GenerationTimeout bounds each model call when positive.
	GenerationTimeout time.Duration
	// IncludePrevious feeds the latest version's text into revision prompts.
	IncludePrevious bool
}

// Service orchestrates document generation for applications.
type Service struct {
	apps     db.ApplicationStore
	profiles db.ProfileStore
	client   llm.Client
	opts     Options
	logger   *slog.Logger
}

// NewService creates a generation service.
func NewService(apps db.ApplicationStore, profiles db.ProfileStore, client llm.Client, opts Options, logger *slog.Logger) *Service {
	if opts.Tier == "" {
		opts.Tier = llm.TierAdvanced
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{apps: apps, profiles: profiles, client: client, opts: opts, logger: logger}
}

// Generate produces the first (or a fresh) cover letter and resume for the application.
func (s *Service) Generate(ctx context.Context, applicationID uuid.UUID, userID string) (*types.Documents, error) {
	return s.run(ctx, applicationID, userID, nil, nil)
}

// GenerateWithProgress is Generate with progress reporting.
func (s *Service) GenerateWithProgress(ctx context.Context, applicationID uuid.UUID, userID string, progress ProgressFunc) (*types.Documents, error) {
	return s.run(ctx, applicationID, userID, nil, progress)
}

// Revise regenerates both documents steered by feedback, which must not be blank.
// Each call appends a new version, so repeating it is not idempotent.
func (s *Service) Revise(ctx context.Context, applicationID uuid.UUID, userID, feedback string) (*types.Documents, error) {
	return s.run(ctx, applicationID, userID, &feedback, nil)
}

// ReviseWithProgress is Revise with progress reporting.
func (s *Service) ReviseWithProgress(ctx context.Context, applicationID uuid.UUID, userID, feedback string, progress ProgressFunc) (*types.Documents, error) {
	return s.run(ctx, applicationID, userID, &feedback, progress)
}

func (s *Service) run(ctx context.Context, applicationID uuid.UUID, userID string, feedback *string, progress ProgressFunc) (*types.Documents, error) {
	if feedback != nil && strings.TrimSpace(*feedback) == "" {
		return nil, &types.ValidationError{Field: "feedback", Message: "must not be empty"}
	}

	app, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, &types.NotFoundError{Entity: types.EntityApplication, ID: applicationID.String()}
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, &types.NotFoundError{Entity: types.EntityUser, ID: userID}
	}

	var previous *types.DocumentVersion
	if feedback != nil && s.opts.IncludePrevious {
		previous = app.LatestVersion()
	}
	ps, err := buildPrompts(app.Job, profile, feedback, previous)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := newReporter(progress, applicationID, start)
	report.emit(EventStarted, nil)

	var coverLetter, resume string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.generate(gctx, ps.coverLetter, "cover letter")
		if err != nil {
			return err
		}
		coverLetter = text
		report.emit(EventCoverLetter, nil)
		return nil
	})
	g.Go(func() error {
		text, err := s.generate(gctx, ps.resume, "resume")
		if err != nil {
			return err
		}
		resume = text
		report.emit(EventResume, nil)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v, err := s.apps.AppendVersion(ctx, applicationID, types.DocumentVersion{
		CoverLetter: coverLetter,
		Resume:      resume,
		Feedback:    feedback,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &types.NotFoundError{Entity: types.EntityApplication, ID: applicationID.String()}
		}
		return nil, fmt.Errorf("failed to save documents: %w", err)
	}
	report.emit(EventSaved, &v.Seq)

	s.logger.Info("documents generated",
		"application_id", applicationID,
		"user_id", userID,
		"version", v.Seq,
		"revision", feedback != nil,
		"duration", time.Since(start),
	)
	return &types.Documents{CoverLetter: v.CoverLetter, Resume: v.Resume, Version: v.Seq}, nil
}

// generate makes one model call and rejects blank output.
func (s *Service) generate(ctx context.Context, prompt, document string) (string, error) {
	if s.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.GenerationTimeout)
		defer cancel()
	}

	text, err := llm.Complete(ctx, s.client, prompt, s.opts.Tier)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", document, err)
	}
	return text, nil
}

type reporter struct {
	mu    sync.Mutex
	fn    ProgressFunc
	appID uuid.UUID
	start time.Time
}

func newReporter(fn ProgressFunc, appID uuid.UUID, start time.Time) *reporter {
	return &reporter{fn: fn, appID: appID, start: start}
}

func (r *reporter) emit(event Event, version *int) {
	if r.fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fn(Progress{Event: event, ApplicationID: r.appID, Version: version, ElapsedMS: time.Since(r.start).Milliseconds()})
}
