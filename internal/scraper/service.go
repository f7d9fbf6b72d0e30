package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// ServiceScraper delegates scraping to an extraction service exposing
// GET {baseURL}/extract?url=<job link>.
type ServiceScraper struct {
	baseURL    string
	httpClient *http.Client
}

// NewServiceScraper creates a delegating scraper. A nil httpClient gets one with timeout.
func NewServiceScraper(baseURL string, httpClient *http.Client, timeout time.Duration) *ServiceScraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &ServiceScraper{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Scrape implements JobScraper.
func (s *ServiceScraper) Scrape(ctx context.Context, jobURL string) (*types.JobPosting, error) {
	endpoint := s.baseURL + "/extract?" + url.Values{"url": {jobURL}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ScrapeError{Kind: KindFetch, URL: jobURL, Message: "build extraction request", Cause: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ScrapeError{Kind: KindFetch, URL: jobURL, Message: "extraction service unreachable", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &ScrapeError{Kind: KindFetch, URL: jobURL, Message: "read extraction response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		scrapeErr := &ScrapeError{
			Kind:       KindStatus,
			URL:        jobURL,
			StatusCode: resp.StatusCode,
			Message:    "extraction service returned non-success status",
		}
		if payload := decodeErrorPayload(body); payload != nil {
			scrapeErr.Cause = fmt.Errorf("%s", payload.Error)
		}
		return nil, scrapeErr
	}

	if payload := decodeErrorPayload(body); payload != nil {
		return nil, &ScrapeError{
			Kind:    KindExtraction,
			URL:     jobURL,
			Message: payload.Error,
			Cause:   &ExtractionError{Details: payload.Details, Raw: string(body)},
		}
	}

	posting, err := ParseJobFields(string(body))
	if err != nil {
		return nil, &ScrapeError{Kind: KindExtraction, URL: jobURL, Message: "could not parse job fields", Cause: err}
	}
	return posting, nil
}

// decodeErrorPayload returns the payload when body is an {error, details} object.
func decodeErrorPayload(body []byte) *ErrorPayload {
	var payload ErrorPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return nil
	}
	return &payload
}
