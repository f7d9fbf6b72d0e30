package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// RetryScraper is a decorator that retries transient scrape failures with
// exponential backoff and jitter before delegating to the wrapped JobScraper.
type RetryScraper struct {
	inner      JobScraper
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryScraper wraps a JobScraper with retry logic.
// maxRetries is the number of additional attempts after the first failure.
func NewRetryScraper(inner JobScraper, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryScraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryScraper{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay, logger: logger}
}

// Scrape attempts to scrape url, retrying on transient errors.
func (r *RetryScraper) Scrape(ctx context.Context, url string) (*types.JobPosting, error) {
	posting, err := r.inner.Scrape(ctx, url)
	if err == nil || !isRetryable(err) {
		return posting, err
	}

	lastErr := err
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		delay := r.backoffDelay(attempt, lastErr)

		r.logger.Warn("retrying scrape after transient error",
			"url", url,
			"attempt", attempt,
			"max_retries", r.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		posting, err = r.inner.Scrape(ctx, url)
		if err == nil {
			return posting, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After value from the job site takes precedence.
func (r *RetryScraper) backoffDelay(attempt int, err error) time.Duration {
	var scrapeErr *ScrapeError
	if errors.As(err, &scrapeErr) && scrapeErr.RetryAfter > 0 {
		return scrapeErr.RetryAfter
	}

	delay := r.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var scrapeErr *ScrapeError
	return errors.As(err, &scrapeErr) && scrapeErr.Temporary()
}
