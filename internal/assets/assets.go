// Package assets handles career asset uploads: raw files are stored, their
// text is extracted and summarized, and the summaries are merged into the
// user's profile.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobseeker-buddy/internal/db"
	"github.com/jonathan/jobseeker-buddy/internal/ingestion"
	"github.com/jonathan/jobseeker-buddy/internal/storage"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// Upload is one uploaded file tagged with the asset kind it provides.
type Upload struct {
	Kind     types.AssetKind
	Filename string
	Data     []byte
}

// Result is the outcome of an upload.
type Result struct {
	Profile   *types.Profile        `json:"profile"`
	Documents []*ingestion.Metadata `json:"documents"`
}

// Service stores uploads and maintains user profiles.
type Service struct {
	profiles   db.ProfileStore
	blobs      storage.BlobStore
	summarizer *ingestion.Summarizer
	logger     *slog.Logger
}

// NewService wires the profile store, blob store and summarizer.
func NewService(profiles db.ProfileStore, blobs storage.BlobStore, summarizer *ingestion.Summarizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{profiles: profiles, blobs: blobs, summarizer: summarizer, logger: logger}
}

func validate(userID string, uploads []Upload) error {
	if strings.TrimSpace(userID) == "" {
		return &types.ValidationError{Field: "user_id", Message: "is required"}
	}
	if len(uploads) == 0 {
		return &types.ValidationError{Field: "files", Message: "at least one of resume, linkedin or experience is required"}
	}

	seen := make(map[types.AssetKind]bool, len(uploads))
	for _, u := range uploads {
		switch u.Kind {
		case types.AssetResume, types.AssetLinkedIn, types.AssetExperience:
		default:
			return &types.ValidationError{Field: string(u.Kind), Message: "unknown asset kind"}
		}
		if seen[u.Kind] {
			return &types.ValidationError{Field: string(u.Kind), Message: "uploaded more than once"}
		}
		seen[u.Kind] = true
	}
	return nil
}

// Upload processes every file, then merges the results into the profile in one write.
// Assets not present in the upload keep their stored values. If any file fails the
// profile is left unchanged.
func (s *Service) Upload(ctx context.Context, userID string, uploads []Upload) (*Result, error) {
	if err := validate(userID, uploads); err != nil {
		return nil, err
	}

	type processed struct {
		path    string
		summary string
		meta    *ingestion.Metadata
	}
	results := make([]processed, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range uploads {
		g.Go(func() error {
			_, summary, err := s.summarizer.Process(gctx, u.Kind, u.Filename, u.Data)
			if err != nil {
				return fmt.Errorf("%s: %w", u.Kind, err)
			}
			path, err := s.blobs.Save(gctx, userID, u.Kind, u.Filename, u.Data)
			if err != nil {
				return fmt.Errorf("%s: %w", u.Kind, err)
			}
			results[i] = processed{path: path, summary: summary, meta: ingestion.NewMetadata(u.Filename, u.Data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var update types.ProfileUpdate
	docs := make([]*ingestion.Metadata, 0, len(uploads))
	for i, u := range uploads {
		update.SetAsset(u.Kind, results[i].path, results[i].summary)
		docs = append(docs, results[i].meta)
	}

	profile, err := s.profiles.UpsertProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID, "assets", len(uploads))
	return &Result{Profile: profile, Documents: docs}, nil
}

// GetProfile returns the user's profile or a NotFoundError.
func (s *Service) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &types.NotFoundError{Entity: types.EntityUser, ID: userID}
	}
	return profile, nil
}
