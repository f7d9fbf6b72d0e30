package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobseeker-buddy/internal/db"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "buddy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestGetProfile_Missing(t *testing.T) {
	s := newTestStore(t)

	p, err := s.GetProfile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpsertProfile_MergesPartialUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var first types.ProfileUpdate
	first.SetAsset(types.AssetResume, "assets/u1/resume_cv.pdf", "Go engineer, 5 years")
	first.SetAsset(types.AssetExperience, "assets/u1/experience_notes.txt", "Led a migration")
	created, err := s.UpsertProfile(ctx, "u1", first)
	require.NoError(t, err)
	assert.Equal(t, "Go engineer, 5 years", created.ParsedResume)
	assert.Empty(t, created.ParsedLinkedIn)

	var second types.ProfileUpdate
	second.SetAsset(types.AssetLinkedIn, "assets/u1/linkedin_profile.pdf", "Open source maintainer")
	_, err = s.UpsertProfile(ctx, "u1", second)
	require.NoError(t, err)

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Go engineer, 5 years", got.ParsedResume)
	assert.Equal(t, "Open source maintainer", got.ParsedLinkedIn)
	assert.Equal(t, "Led a migration", got.ParsedExperience)
	assert.Equal(t, "assets/u1/resume_cv.pdf", got.ResumePath)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestUpsertProfile_OverwritesSameKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var first, second types.ProfileUpdate
	first.SetAsset(types.AssetResume, "a", "old")
	second.SetAsset(types.AssetResume, "b", "new")
	_, err := s.UpsertProfile(ctx, "u1", first)
	require.NoError(t, err)
	_, err = s.UpsertProfile(ctx, "u1", second)
	require.NoError(t, err)

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.ParsedResume)
	assert.Equal(t, "b", got.ResumePath)
}

func TestCreateAndGetApplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := types.JobPosting{
		Company:      "Acme",
		Role:         "Backend Engineer",
		Requirements: []string{"Go", "PostgreSQL"},
	}
	job.Normalize()
	app, err := s.CreateApplication(ctx, "u1", "https://jobs.example.com/42", job)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, app.ID)
	assert.Empty(t, app.Versions)

	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "https://jobs.example.com/42", got.JobURL)
	assert.Equal(t, job, got.Job)
	assert.NotNil(t, got.Versions)
	assert.Empty(t, got.Versions)
}

func TestGetApplication_Missing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetApplication(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListApplications_NewestFirstPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := s.CreateApplication(ctx, "u1", "https://a.example.com", types.JobPosting{Role: "first"})
	require.NoError(t, err)
	second, err := s.CreateApplication(ctx, "u1", "https://b.example.com", types.JobPosting{Role: "second"})
	require.NoError(t, err)
	_, err = s.CreateApplication(ctx, "u2", "https://c.example.com", types.JobPosting{})
	require.NoError(t, err)

	apps, err := s.ListApplications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, second.ID, apps[0].ID)
	assert.Equal(t, first.ID, apps[1].ID)

	none, err := s.ListApplications(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAppendVersion_SequencesFromZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	app, err := s.CreateApplication(ctx, "u1", "https://jobs.example.com/1", types.JobPosting{})
	require.NoError(t, err)

	v0, err := s.AppendVersion(ctx, app.ID, types.DocumentVersion{CoverLetter: "cover 0", Resume: "resume 0"})
	require.NoError(t, err)
	assert.Equal(t, 0, v0.Seq)
	assert.Nil(t, v0.Feedback)

	v1, err := s.AppendVersion(ctx, app.ID, types.DocumentVersion{CoverLetter: "cover 1", Resume: "resume 1", Feedback: strPtr("more concise")})
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Seq)

	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, got.Versions, 2)
	assert.Equal(t, "cover 0", got.Versions[0].CoverLetter)
	assert.Nil(t, got.Versions[0].Feedback)
	require.NotNil(t, got.Versions[1].Feedback)
	assert.Equal(t, "more concise", *got.Versions[1].Feedback)
	assert.Equal(t, 1, got.LatestVersion().Seq)
}

func TestAppendVersion_UnknownApplication(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AppendVersion(context.Background(), uuid.New(), types.DocumentVersion{})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestAppendVersion_ConcurrentAppendsGetDistinctSeqs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	app, err := s.CreateApplication(ctx, "u1", "https://jobs.example.com/1", types.JobPosting{})
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.AppendVersion(ctx, app.ID, types.DocumentVersion{CoverLetter: "c", Resume: "r"})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	versions, err := s.ListVersions(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, versions, n)
	for i, v := range versions {
		assert.Equal(t, i, v.Seq)
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateApplication(context.Background(), "u1", "https://x.example.com", types.JobPosting{})
	require.NoError(t, err)
	apps, err := s.ListApplications(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}
