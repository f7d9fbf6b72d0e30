// Package fetch retrieves job-posting pages and turns their HTML into text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobSeekerBuddy/1.0)"

// MaxBodyBytes bounds how much of a page is read.
const MaxBodyBytes = 5 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
// StatusCode is set when the server answered with a non-200 status.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	RetryAfter time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Fetcher performs GET requests with a shared client.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher. A nil opts uses DefaultOptions.
func New(opts *Options) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return &Fetcher{client: &http.Client{Timeout: o.Timeout}, opts: o}
}

// WithClient returns a copy of f that sends requests through client.
func (f *Fetcher) WithClient(client *http.Client) *Fetcher {
	clone := *f
	clone.client = client
	return &clone
}

// URL retrieves HTML content from a URL using a one-off Fetcher.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	return New(opts).Get(ctx, urlStr)
}

// Get retrieves urlStr. On a non-200 status both the Result and an *Error are returned.
func (f *Fetcher) Get(ctx context.Context, urlStr string) (*Result, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Host == "" || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		fetchErr := &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			fetchErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return result, fetchErr
	}

	return result, nil
}
