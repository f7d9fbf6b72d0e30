package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobseeker-buddy/internal/fetch"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// MaxPostingChars bounds how much page text is sent to the extraction model.
const MaxPostingChars = 40000

// InlineScraper fetches the posting, strips it to text and asks a model
// to map the text onto the job fields.
type InlineScraper struct {
	fetcher  *fetch.Fetcher
	renderer fetch.Renderer
	client   llm.Client
	logger   *slog.Logger
}

// NewInlineScraper creates an inline scraper without browser rendering.
func NewInlineScraper(fetcher *fetch.Fetcher, client llm.Client, logger *slog.Logger) *InlineScraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &InlineScraper{fetcher: fetcher, client: client, logger: logger}
}

// WithRenderer enables rendering pages whose static HTML yields too little text.
func (s *InlineScraper) WithRenderer(r fetch.Renderer) *InlineScraper {
	clone := *s
	clone.renderer = r
	return &clone
}

// Scrape implements JobScraper.
func (s *InlineScraper) Scrape(ctx context.Context, url string) (*types.JobPosting, error) {
	text, err := s.PageText(ctx, url)
	if err != nil {
		return nil, err
	}

	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), text)
	output, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ScrapeError{Kind: KindExtraction, URL: url, Message: "extraction model failed", Cause: err}
	}

	posting, err := ParseJobFields(output)
	if err != nil {
		var extractErr *ExtractionError
		if errors.As(err, &extractErr) {
			s.logger.Debug("unparseable extraction output", "url", url, "raw", truncate(extractErr.Raw, 500))
		}
		return nil, &ScrapeError{Kind: KindExtraction, URL: url, Message: "could not parse job fields", Cause: err}
	}

	s.logger.Info("scraped job posting", "url", url, "company", posting.Company, "role", posting.Role)
	return posting, nil
}

// PageText fetches url and returns the posting's visible text, rendering the
// page in a browser when the static HTML is too thin and a renderer is set.
func (s *InlineScraper) PageText(ctx context.Context, url string) (string, error) {
	result, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return "", fromFetchError(url, err)
	}

	text := pageText(url, result.HTML)
	if fetch.ShouldUseBrowser(text) && s.renderer != nil {
		s.logger.Info("static page text is short, rendering in browser", "url", url, "chars", len(text))
		html, err := s.renderer.Render(ctx, url)
		if err != nil {
			s.logger.Warn("browser rendering failed, using static text", "url", url, "error", err)
		} else if rendered := pageText(url, html); len(rendered) > len(text) {
			text = rendered
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &ScrapeError{Kind: KindExtraction, URL: url, Message: "page has no visible text"}
	}
	return truncate(text, MaxPostingChars), nil
}

// pageText prefers the platform's posting region and falls back to all visible text.
func pageText(url, html string) string {
	text, err := fetch.PostingText(url, html)
	if err == nil && text != "" {
		return text
	}
	text, _ = fetch.VisibleText(html)
	return text
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
