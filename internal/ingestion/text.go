// Package ingestion turns uploaded career documents into cleaned, summarized text.
package ingestion

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRun      = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	blankLineRun  = regexp.MustCompile(`\n{3,}`)
	bulletPrefix  = regexp.MustCompile(`^[•·▪●◦‣∙]\s*`)
	zeroWidthRune = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "")
)

// CleanText normalizes extracted document text while preserving its structure.
// Unicode is converted to NFC, line endings to LF, typographic bullets to "- ",
// runs of spaces are collapsed and at most one blank line is kept between blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = norm.NFC.String(content)
	content = zeroWidthRune.Replace(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace but keeps leading indentation,
// which PDF text uses to mark nested bullets.
func cleanLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}
	indent := len(line) - len(trimmed)

	trimmed = bulletPrefix.ReplaceAllString(trimmed, "- ")
	trimmed = strings.TrimSpace(spaceRun.ReplaceAllString(trimmed, " "))

	if indent > 0 {
		return strings.Repeat(" ", indent) + trimmed
	}
	return trimmed
}
