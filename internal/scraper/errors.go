package scraper

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/jobseeker-buddy/internal/fetch"
)

// Kind classifies a scrape failure.
type Kind string

const (
	// KindInvalidURL means the job link is not an absolute http(s) URL
	KindInvalidURL Kind = "invalid_url"
	// KindFetch means the page or extraction service could not be reached
	KindFetch Kind = "fetch"
	// KindStatus means the page or extraction service answered with a non-success status
	KindStatus Kind = "status"
	// KindExtraction means the page was fetched but no job fields could be extracted
	KindExtraction Kind = "extraction"
)

// ScrapeError is the single error type returned by every JobScraper.
type ScrapeError struct {
	Kind       Kind
	URL        string
	StatusCode int
	RetryAfter time.Duration
	Message    string
	Cause      error
}

func (e *ScrapeError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("scrape %s: %s: %v", e.URL, msg, e.Cause)
	}
	return fmt.Sprintf("scrape %s: %s", e.URL, msg)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

// Temporary reports whether the same scrape may succeed if retried.
func (e *ScrapeError) Temporary() bool {
	switch e.Kind {
	case KindFetch:
		return true
	case KindStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

// ExtractionError reports model output that could not be turned into job fields.
// Raw holds the text that was being parsed.
type ExtractionError struct {
	Details string
	Raw     string
	Cause   error
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Details
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// fromFetchError maps a fetch failure onto the scrape taxonomy.
func fromFetchError(url string, err error) *ScrapeError {
	var fetchErr *fetch.Error
	if !errors.As(err, &fetchErr) {
		return &ScrapeError{Kind: KindFetch, URL: url, Message: "fetch failed", Cause: err}
	}
	switch {
	case fetchErr.StatusCode != 0:
		return &ScrapeError{
			Kind:       KindStatus,
			URL:        url,
			StatusCode: fetchErr.StatusCode,
			RetryAfter: fetchErr.RetryAfter,
			Message:    "job page returned non-success status",
		}
	case fetchErr.Message == "invalid URL":
		return &ScrapeError{Kind: KindInvalidURL, URL: url, Message: "invalid URL", Cause: fetchErr.Cause}
	default:
		return &ScrapeError{Kind: KindFetch, URL: url, Message: fetchErr.Message, Cause: fetchErr.Cause}
	}
}
