package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceScraper_Success(t *testing.T) {
	var gotURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)
		gotURL = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`{"company":"Acme","role":"Engineer","location":"Remote","key responsibilities":["Ship"]}`))
	}))
	defer server.Close()

	s := NewServiceScraper(server.URL+"/", server.Client(), time.Second)
	posting, err := s.Scrape(context.Background(), "https://jobs.example.com/1?ref=a&b=c")
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.example.com/1?ref=a&b=c", gotURL)
	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, []string{"Ship"}, posting.Responsibilities)
}

func TestServiceScraper_ErrorPayloadIsExtractionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Extraction failed","details":"Expecting value: line 1 column 1"}`))
	}))
	defer server.Close()

	_, err := NewServiceScraper(server.URL, server.Client(), time.Second).Scrape(context.Background(), "https://x.test/job")

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindExtraction, scrapeErr.Kind)

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "Expecting value: line 1 column 1", extractErr.Details)
}

func TestServiceScraper_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch URL. Status code: 404"}`))
	}))
	defer server.Close()

	_, err := NewServiceScraper(server.URL, server.Client(), time.Second).Scrape(context.Background(), "https://x.test/job")

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindStatus, scrapeErr.Kind)
	assert.Equal(t, http.StatusBadRequest, scrapeErr.StatusCode)
	assert.False(t, scrapeErr.Temporary())
	assert.Contains(t, err.Error(), "Status code: 404")
}

func TestServiceScraper_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	_, err := NewServiceScraper(base, nil, time.Second).Scrape(context.Background(), "https://x.test/job")

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, KindFetch, scrapeErr.Kind)
	assert.True(t, scrapeErr.Temporary())
}
