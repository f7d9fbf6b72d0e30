// Package scraper turns a job-posting URL into structured job fields.
// Two strategies exist: extracting inline (fetch, strip to text, ask a model)
// or delegating to an extraction service. Both return *ScrapeError on failure.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/jobseeker-buddy/internal/fetch"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// JobScraper extracts job fields from a posting URL.
type JobScraper interface {
	Scrape(ctx context.Context, url string) (*types.JobPosting, error)
}

// Mode selects the scraping strategy.
type Mode string

const (
	// ModeInline fetches and extracts in-process
	ModeInline Mode = "inline"
	// ModeService delegates to an extraction service's /extract endpoint
	ModeService Mode = "service"
)

// Options configures New.
type Options struct {
	Mode         Mode
	ServiceURL   string
	UseBrowser   bool
	FetchTimeout time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// New builds the scraper selected by opts.Mode, wrapped in retries when
// opts.MaxRetries is positive. client is only used in inline mode.
func New(opts Options, client llm.Client, logger *slog.Logger) (JobScraper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fetchOpts := fetch.DefaultOptions()
	if opts.FetchTimeout > 0 {
		fetchOpts.Timeout = opts.FetchTimeout
	}

	var s JobScraper
	switch opts.Mode {
	case ModeInline, "":
		if client == nil {
			return nil, fmt.Errorf("inline scraping requires an llm client")
		}
		inline := NewInlineScraper(fetch.New(fetchOpts), client, logger)
		if opts.UseBrowser {
			inline = inline.WithRenderer(fetch.NewChromeRenderer(logger))
		}
		s = inline
	case ModeService:
		if opts.ServiceURL == "" {
			return nil, fmt.Errorf("service scraping requires a service URL")
		}
		s = NewServiceScraper(opts.ServiceURL, nil, fetchOpts.Timeout)
	default:
		return nil, fmt.Errorf("unknown scraper mode %q", opts.Mode)
	}

	if opts.MaxRetries > 0 {
		s = NewRetryScraper(s, opts.MaxRetries, opts.RetryDelay, logger)
	}
	return s, nil
}
