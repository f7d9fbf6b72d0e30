package documents

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobseeker-buddy/internal/db/sqlite"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/llm/llmtest"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

const userID = "user-1"

func isCoverLetterPrompt(prompt string) bool {
	return strings.Contains(prompt, "Return only the text of the cover letter.")
}

// echoModel answers with a document whose text reveals which prompt produced it
func echoModel(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	if isCoverLetterPrompt(prompt) {
		return "Dear hiring manager,\n\nCover letter body.\n", nil
	}
	return "JANE DOE\nTailored resume body.", nil
}

type fixture struct {
	svc    *Service
	store  *sqlite.Store
	client *llmtest.MockLLMClient
	app    *types.Application
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	var update types.ProfileUpdate
	update.SetAsset(types.AssetResume, "assets/user-1/resume_cv.pdf", "Seven years of Go and distributed systems.")
	update.SetAsset(types.AssetLinkedIn, "assets/user-1/linkedin_profile.pdf", "Maintainer of an open source queue.")
	_, err = store.UpsertProfile(ctx, userID, update)
	require.NoError(t, err)

	app, err := store.CreateApplication(ctx, userID, "https://jobs.example.com/42", types.JobPosting{
		Company:          "Acme",
		Role:             "Senior Backend Engineer",
		Responsibilities: []string{"Own the payments API"},
		Requirements:     []string{"Go", "PostgreSQL"},
	})
	require.NoError(t, err)

	client := &llmtest.MockLLMClient{GenerateContentFunc: echoModel}
	svc := NewService(store, store, client, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &fixture{svc: svc, store: store, client: client, app: app}
}

func (f *fixture) versions(t *testing.T) []types.DocumentVersion {
	t.Helper()
	versions, err := f.store.ListVersions(context.Background(), f.app.ID)
	require.NoError(t, err)
	return versions
}

func TestGenerate_AppendsFirstVersion(t *testing.T) {
	f := newFixture(t, Options{})

	docs, err := f.svc.Generate(context.Background(), f.app.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, 0, docs.Version)
	assert.Equal(t, "Dear hiring manager,\n\nCover letter body.\n", docs.CoverLetter, "text is returned verbatim")
	assert.Equal(t, "JANE DOE\nTailored resume body.", docs.Resume)

	versions := f.versions(t)
	require.Len(t, versions, 1)
	assert.Equal(t, docs.CoverLetter, versions[0].CoverLetter)
	assert.Equal(t, docs.Resume, versions[0].Resume)
	assert.Nil(t, versions[0].Feedback)
}

func TestGenerate_PromptsCarryJobAndProfile(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Generate(context.Background(), f.app.ID, userID)
	require.NoError(t, err)

	prompts := f.client.Prompts()
	require.Len(t, prompts, 2)
	for _, p := range prompts {
		assert.Contains(t, p, "Company: Acme")
		assert.Contains(t, p, "Role: Senior Backend Engineer")
		assert.Contains(t, p, "- PostgreSQL")
		assert.Contains(t, p, "Seven years of Go and distributed systems.")
		assert.Contains(t, p, "Maintainer of an open source queue.")
		assert.NotContains(t, p, "own description of their experience", "empty experience is omitted")
		assert.NotContains(t, p, "{{.")
		if !isCoverLetterPrompt(p) {
			assert.Contains(t, p, "Do not fabricate any information.")
		}
	}
}

func TestGenerate_UsesConfiguredTier(t *testing.T) {
	f := newFixture(t, Options{Tier: llm.TierStandard})
	var mu sync.Mutex
	var tiers []llm.ModelTier
	f.client.GenerateContentFunc = func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
		mu.Lock()
		tiers = append(tiers, tier)
		mu.Unlock()
		return echoModel(ctx, prompt, tier)
	}

	_, err := f.svc.Generate(context.Background(), f.app.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, []llm.ModelTier{llm.TierStandard, llm.TierStandard}, tiers)
}

func TestRevise_AppendsVersionWithFeedback(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.app.ID, userID)
	require.NoError(t, err)

	docs, err := f.svc.Revise(ctx, f.app.ID, userID, "Make it more concise")
	require.NoError(t, err)
	assert.Equal(t, 1, docs.Version)

	versions := f.versions(t)
	require.Len(t, versions, 2)
	require.NotNil(t, versions[1].Feedback)
	assert.Equal(t, "Make it more concise", *versions[1].Feedback)

	revisionPrompts := f.client.Prompts()[2:]
	require.Len(t, revisionPrompts, 2)
	for _, p := range revisionPrompts {
		assert.Contains(t, p, "'Make it more concise'")
		assert.NotContains(t, p, "Tailored resume body.", "prior text is not fed back by default")
		assert.NotContains(t, p, "Cover letter body.")
	}
}

func TestRevise_IncludePrevious(t *testing.T) {
	f := newFixture(t, Options{IncludePrevious: true})
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.app.ID, userID)
	require.NoError(t, err)
	_, err = f.svc.Revise(ctx, f.app.ID, userID, "Mention Kubernetes")
	require.NoError(t, err)

	for _, p := range f.client.Prompts()[2:] {
		if isCoverLetterPrompt(p) {
			assert.Contains(t, p, "The previous cover letter was:\nDear hiring manager,")
			assert.NotContains(t, p, "Tailored resume body.")
		} else {
			assert.Contains(t, p, "The previous resume was:\nJANE DOE\nTailored resume body.")
		}
	}
}

func TestRevise_WithoutPriorVersion(t *testing.T) {
	f := newFixture(t, Options{IncludePrevious: true})

	docs, err := f.svc.Revise(context.Background(), f.app.ID, userID, "Shorter please")
	require.NoError(t, err)
	assert.Equal(t, 0, docs.Version)
	for _, p := range f.client.Prompts() {
		assert.NotContains(t, p, "The previous")
	}
}

func TestRevise_BlankFeedbackRejected(t *testing.T) {
	f := newFixture(t, Options{})

	for _, feedback := range []string{"", "   \n\t"} {
		_, err := f.svc.Revise(context.Background(), f.app.ID, userID, feedback)
		var ve *types.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "feedback", ve.Field)
	}
	assert.Empty(t, f.client.Prompts())
	assert.Empty(t, f.versions(t))
}

func TestGenerate_NotFound(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	missing := uuid.New()

	_, err := f.svc.Generate(ctx, missing, userID)
	var nf *types.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, types.EntityApplication, nf.Entity)
	assert.Equal(t, missing.String(), nf.ID)

	_, err = f.svc.Revise(ctx, f.app.ID, "stranger", "feedback")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, types.EntityUser, nf.Entity)
	assert.Equal(t, "stranger", nf.ID)

	assert.Empty(t, f.client.Prompts())
	assert.Empty(t, f.versions(t))
}

func TestGenerate_ModelFailurePersistsNothing(t *testing.T) {
	f := newFixture(t, Options{})
	f.client.GenerateContentFunc = func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
		if isCoverLetterPrompt(prompt) {
			return echoModel(ctx, prompt, tier)
		}
		return "", &llm.ModelError{Kind: llm.KindStatus, StatusCode: 500, Message: "server error"}
	}

	_, err := f.svc.Generate(context.Background(), f.app.ID, userID)
	assert.True(t, llm.IsKind(err, llm.KindStatus))
	assert.Empty(t, f.versions(t))
}

func TestGenerate_EmptyOutputIsMalformed(t *testing.T) {
	f := newFixture(t, Options{})
	f.client.GenerateContentFunc = func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
		if isCoverLetterPrompt(prompt) {
			return "  \n", nil
		}
		return echoModel(ctx, prompt, tier)
	}

	_, err := f.svc.Generate(context.Background(), f.app.ID, userID)
	assert.True(t, llm.IsKind(err, llm.KindMalformed))
	assert.Contains(t, err.Error(), "empty cover letter")
	assert.Empty(t, f.versions(t))
}

func TestGenerate_Timeout(t *testing.T) {
	f := newFixture(t, Options{GenerationTimeout: 20 * time.Millisecond})
	f.client.GenerateContentFunc = func(ctx context.Context, _ string, _ llm.ModelTier) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := f.svc.Generate(context.Background(), f.app.ID, userID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, f.versions(t))
}

func TestGenerate_CallerCancellation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	f.client.GenerateContentFunc = func(ctx context.Context, _ string, _ llm.ModelTier) (string, error) {
		cancel()
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := f.svc.Generate(ctx, f.app.ID, userID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.versions(t))
}

func TestGenerateWithProgress_Events(t *testing.T) {
	f := newFixture(t, Options{})
	var events []Progress

	docs, err := f.svc.GenerateWithProgress(context.Background(), f.app.ID, userID, func(p Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, EventStarted, events[0].Event)
	assert.ElementsMatch(t, []Event{EventCoverLetter, EventResume}, []Event{events[1].Event, events[2].Event})
	assert.Equal(t, EventSaved, events[3].Event)
	require.NotNil(t, events[3].Version)
	assert.Equal(t, docs.Version, *events[3].Version)
	assert.Nil(t, events[0].Version)
	for _, e := range events {
		assert.Equal(t, f.app.ID, e.ApplicationID)
	}
}

func TestRevise_ConcurrentCallsGetDistinctVersions(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	const n = 5
	var wg sync.WaitGroup
	results := make([]*types.Documents, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Revise(ctx, f.app.ID, userID, "again")
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		seen[results[i].Version] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, f.versions(t), n)
}

func TestGenerate_BlankOutputPersistsNothing(t *testing.T) {
	f := newFixture(t, Options{})
	f.client.GenerateContentFunc = func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
		if isCoverLetterPrompt(prompt) {
			return "   ", nil
		}
		return echoModel(ctx, prompt, tier)
	}

	_, err := f.svc.Generate(context.Background(), f.app.ID, userID)
	assert.True(t, llm.IsKind(err, llm.KindMalformed))
	assert.Contains(t, err.Error(), "cover letter")
	assert.Empty(t, f.versions(t))
}
