package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplateSelector matches page chrome that never carries posting content.
const boilerplateSelector = "nav, footer, header, script, style, noscript, svg, iframe, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplateSelector).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(blockText(mainContent)), nil
}

// VisibleText returns every visible line of the page, without choosing a main region.
func VisibleText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, svg, iframe").Remove()
	return cleanWhitespace(blockText(doc.Find("body"))), nil
}

// PostingText extracts the posting body from a page using the selectors for
// the platform urlStr belongs to.
func PostingText(urlStr, html string) (string, error) {
	platform := DetectPlatform(urlStr)
	return ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
}

// JobPostingSelectors returns selectors optimized for job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// blockText returns the selection's text with a newline after each block
// element, so list items and paragraphs do not run together.
func blockText(sel *goquery.Selection) string {
	sel.Find("p, li, ul, ol, div, h1, h2, h3, h4, h5, h6, tr, section, article, main, nav, header, footer").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	sel.Find("br").ReplaceWithHtml("\n")
	return sel.Text()
}

// cleanWhitespace trims every line, collapses runs of spaces and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
