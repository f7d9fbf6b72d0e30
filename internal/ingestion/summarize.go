package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/prompts"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// Summarizer condenses document text into the profile summary used by generation prompts.
type Summarizer struct {
	client llm.Client
	logger *slog.Logger
}

// NewSummarizer creates a Summarizer that calls client at the lite tier.
func NewSummarizer(client llm.Client, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{client: client, logger: logger}
}

// Summarize returns the model's summary of text. Free-text experience uses
// a prompt that keeps more detail than the resume and profile prompts.
func (s *Summarizer) Summarize(ctx context.Context, kind types.AssetKind, text string) (string, error) {
	key := "summarize-document"
	if kind == types.AssetExperience {
		key = "summarize-experience"
	}

	prompt, err := prompts.Render(prompts.IngestionFile, key, map[string]string{"Content": text})
	if err != nil {
		return "", err
	}

	summary, err := s.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", kind, err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", &llm.ModelError{Kind: llm.KindMalformed, Message: fmt.Sprintf("empty %s summary", kind)}
	}

	s.logger.Debug("summarized document", "kind", kind, "input_chars", len(text), "summary_chars", len(summary))
	return summary, nil
}

// Process extracts text from an uploaded document and summarizes it.
// It returns the cleaned text alongside the summary.
func (s *Summarizer) Process(ctx context.Context, kind types.AssetKind, name string, data []byte) (text, summary string, err error) {
	text, err = ExtractText(name, data)
	if err != nil {
		return "", "", err
	}
	summary, err = s.Summarize(ctx, kind, text)
	if err != nil {
		return "", "", err
	}
	return text, summary, nil
}
