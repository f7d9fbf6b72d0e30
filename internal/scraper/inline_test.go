package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobseeker-buddy/internal/fetch"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/llm/llmtest"
)

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(context.Context, string) (string, error) {
	f.calls++
	return f.html, f.err
}

func pageServer(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func newInline(server *httptest.Server, client llm.Client) *InlineScraper {
	return NewInlineScraper(fetch.New(nil).WithClient(server.Client()), client, nil)
}

func TestInlineScraper_Scrape(t *testing.T) {
	server := pageServer(t, http.StatusOK, `<html><body><nav>Home</nav><main><h1>Staff Engineer</h1><p>Acme builds rockets.</p></main></body></html>`)
	mock := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierLite, tier)
			return "Sure! {\"company\":\"Acme\",\"role\":\"Staff Engineer\"} Let me know.", nil
		},
	}

	posting, err := newInline(server, mock).Scrape(context.Background(), server.URL+"/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, "Staff Engineer", posting.Role)

	prompts := mock.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Staff Engineer\nAcme builds rockets.")
	assert.NotContains(t, prompts[0], "Home")
	assert.Contains(t, prompts[0], "empty string or an empty list")
}

func TestInlineScraper_NonSuccessStatus(t *testing.T) {
	server := pageServer(t, http.StatusNotFound, "gone")
	mock := &llmtest.MockLLMClient{}

	_, err := newInline(server, mock).Scrape(context.Background(), server.URL)

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindStatus, scrapeErr.Kind)
	assert.Equal(t, http.StatusNotFound, scrapeErr.StatusCode)
	assert.Empty(t, mock.Prompts())
}

func TestInlineScraper_InvalidURL(t *testing.T) {
	s := NewInlineScraper(fetch.New(nil), &llmtest.MockLLMClient{}, nil)

	_, err := s.Scrape(context.Background(), "not a url")
	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindInvalidURL, scrapeErr.Kind)
	assert.False(t, scrapeErr.Temporary())
}

func TestInlineScraper_UnparseableOutput(t *testing.T) {
	server := pageServer(t, http.StatusOK, `<html><body><main>Some posting</main></body></html>`)
	mock := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "I can't help with that.", nil
		},
	}

	_, err := newInline(server, mock).Scrape(context.Background(), server.URL)

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindExtraction, scrapeErr.Kind)
	var extractErr *ExtractionError
	assert.ErrorAs(t, err, &extractErr)
}

func TestInlineScraper_ModelFailure(t *testing.T) {
	server := pageServer(t, http.StatusOK, `<html><body><main>Some posting</main></body></html>`)
	mock := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "", &llm.ModelError{Kind: llm.KindUnreachable, Cause: errors.New("refused")}
		},
	}

	_, err := newInline(server, mock).Scrape(context.Background(), server.URL)

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindExtraction, scrapeErr.Kind)
	assert.True(t, llm.IsKind(err, llm.KindUnreachable))
}

func TestInlineScraper_BrowserFallback(t *testing.T) {
	server := pageServer(t, http.StatusOK, `<html><body><div id="root"></div></body></html>`)
	renderer := &fakeRenderer{html: "<html><body><main>" + strings.Repeat("Rendered posting text. ", 30) + "</main></body></html>"}

	s := newInline(server, &llmtest.MockLLMClient{}).WithRenderer(renderer)
	text, err := s.PageText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.Contains(t, text, "Rendered posting text.")
}

func TestInlineScraper_EmptyPage(t *testing.T) {
	server := pageServer(t, http.StatusOK, `<html><body><script>app()</script></body></html>`)
	renderer := &fakeRenderer{err: errors.New("chrome not installed")}

	s := newInline(server, &llmtest.MockLLMClient{}).WithRenderer(renderer)
	_, err := s.PageText(context.Background(), server.URL)

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindExtraction, scrapeErr.Kind)
	assert.Equal(t, 1, renderer.calls)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
		{"日本語", 4, "日"},
		{"日本語", 1, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		assert.Equal(t, tt.want, got, "truncate(%q, %d)", tt.in, tt.max)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), tt.max)
	}
}
