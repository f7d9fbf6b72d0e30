// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLines is how many lines of a long text are shown
	previewLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends up to maxItemsToShow bullet items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// preview returns the first previewLines lines of text.
func preview(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= previewLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:previewLines], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-previewLines)
}

// PrintJobPosting outputs a human-readable summary of extracted job details.
func (p *Printer) PrintJobPosting(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", job.Role))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	}
	if job.Salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:   %s\n", job.Salary))
	}
	sb.WriteString("\n")

	writeList(&sb, "Responsibilities", job.Responsibilities)
	writeList(&sb, "Requirements", job.Requirements)

	p.printBox("📋 JOB DETAILS", sb.String())
}

// PrintProfile outputs which assets a user has and a short preview of each summary.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:     %s\n", profile.UserID))
	sb.WriteString(fmt.Sprintf("Updated:  %s\n\n", profile.UpdatedAt.Format("2006-01-02 15:04")))

	assets := []struct {
		label, path, parsed string
	}{
		{"Resume", profile.ResumePath, profile.ParsedResume},
		{"LinkedIn", profile.LinkedInPath, profile.ParsedLinkedIn},
		{"Experience", profile.ExperiencePath, profile.ParsedExperience},
	}
	for _, a := range assets {
		if a.path == "" {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", a.label))
			continue
		}
		sb.WriteString(fmt.Sprintf("  ✓ %s (%d chars summarized)\n", a.label, len(a.parsed)))
	}

	p.printBox("👤 USER PROFILE", sb.String())
}

// PrintDocuments outputs a preview of a generated cover letter and resume.
func (p *Printer) PrintDocuments(docs *types.Documents) {
	if docs == nil {
		return
	}

	p.printBox(fmt.Sprintf("✉️  COVER LETTER (version %d)", docs.Version), preview(docs.CoverLetter))
	p.printBox(fmt.Sprintf("📄 RESUME (version %d)", docs.Version), preview(docs.Resume))
}

// PrintVersions outputs the version history of an application.
func (p *Printer) PrintVersions(versions []types.DocumentVersion) {
	if len(versions) == 0 {
		p.printBox("📚 VERSIONS", "No documents generated yet")
		return
	}

	var sb strings.Builder
	for _, v := range versions {
		label := "initial"
		if v.Feedback != nil {
			label = "feedback: " + *v.Feedback
		}
		sb.WriteString(fmt.Sprintf("%d. %s  %s\n", v.Seq, v.CreatedAt.Format("2006-01-02 15:04"), label))
	}

	p.printBox(fmt.Sprintf("📚 VERSIONS (%d)", len(versions)), sb.String())
}
