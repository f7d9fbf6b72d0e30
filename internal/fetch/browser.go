package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, the page is likely rendered client-side.
const MinContentLength = 500

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Renderer returns the rendered HTML of a page.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome via chromedp.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	Timeout time.Duration
	Settle  time.Duration
	Logger  *slog.Logger
}

// NewChromeRenderer returns a renderer with a 30s timeout and 3s settle delay.
func NewChromeRenderer(logger *slog.Logger) *ChromeRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeRenderer{Timeout: 30 * time.Second, Settle: 3 * time.Second, Logger: logger}
}

// Render navigates to url, waits for scripts to settle and returns the page HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	r.Logger.Debug("starting headless browser", "url", url)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	r.Logger.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}
