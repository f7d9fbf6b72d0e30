package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/documents"
	"github.com/jonathan/jobseeker-buddy/internal/observability"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

var (
	genUser        string
	genApplication string
	genFeedback    string
	genOutDir      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cover letter and resume for an application",
	RunE:  runGenerate,
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Regenerate an application's documents from feedback",
	Long:  "Regenerate the cover letter and resume with the user's feedback and store them as the next version.",
	RunE:  runFeedback,
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, feedbackCmd} {
		c.Flags().StringVarP(&genUser, "user", "u", "", "User ID (required)")
		c.Flags().StringVarP(&genApplication, "application", "a", "", "Application ID (required)")
		c.Flags().StringVarP(&genOutDir, "out", "o", "", "Directory to write cover_letter.txt and resume.txt (default: print)")
		_ = c.MarkFlagRequired("user")
		_ = c.MarkFlagRequired("application")
	}
	feedbackCmd.Flags().StringVarP(&genFeedback, "feedback", "f", "", "Feedback on the previous version (required)")
	_ = feedbackCmd.MarkFlagRequired("feedback")

	rootCmd.AddCommand(generateCmd, feedbackCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	return generate(cmd, nil)
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	return generate(cmd, &genFeedback)
}

func generate(cmd *cobra.Command, feedback *string) error {
	id, err := uuid.Parse(genApplication)
	if err != nil {
		return fmt.Errorf("invalid application id %q: %w", genApplication, err)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	progress := func(p documents.Progress) {
		a.logger.Debug("generation progress", "event", p.Event, "elapsed_ms", p.ElapsedMS)
	}

	var docs *types.Documents
	if feedback == nil {
		docs, err = a.documents.GenerateWithProgress(cmd.Context(), id, genUser, progress)
	} else {
		docs, err = a.documents.ReviseWithProgress(cmd.Context(), id, genUser, *feedback, progress)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return writeDocuments(cmd.OutOrStdout(), genOutDir, docs)
}

// writeDocuments saves the documents into dir, or prints them when dir is empty.
func writeDocuments(out io.Writer, dir string, docs *types.Documents) error {
	if dir == "" {
		if verbose {
			observability.NewPrinter(out).PrintDocuments(docs)
			return nil
		}
		fmt.Fprintf(out, "=== Cover letter (version %d) ===\n%s\n\n=== Resume ===\n%s\n", docs.Version, docs.CoverLetter, docs.Resume)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	files := map[string]string{
		"cover_letter.txt": docs.CoverLetter,
		"resume.txt":       docs.Resume,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	fmt.Fprintf(out, "Version %d written to %s\n", docs.Version, dir)
	return nil
}
