package documents

import (
	"strings"

	"github.com/jonathan/jobseeker-buddy/internal/prompts"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// Prompt keys in prompts.DocumentsFile
const (
	keyCoverLetter         = "cover-letter"
	keyResume              = "resume"
	keyCoverLetterRevision = "cover-letter-revision"
	keyResumeRevision      = "resume-revision"
)

// FormatJob renders a job posting as labelled text. Empty fields are left out.
func FormatJob(job types.JobPosting) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value != "" {
			sb.WriteString(label + ": " + value + "\n")
		}
	}
	list := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(label + ":\n")
		for _, item := range items {
			sb.WriteString("- " + item + "\n")
		}
	}

	line("Company", job.Company)
	line("Role", job.Role)
	line("Location", job.Location)
	line("Salary", job.Salary)
	line("Description", job.Description)
	list("Responsibilities", job.Responsibilities)
	list("Requirements", job.Requirements)

	return strings.TrimRight(sb.String(), "\n")
}

// promptSet holds the rendered cover letter and resume prompts of one request.
type promptSet struct {
	coverLetter string
	resume      string
}

// buildPrompts renders both prompts. feedback is nil for an initial generation.
// previous is only used for revisions and may be nil.
func buildPrompts(job types.JobPosting, profile *types.Profile, feedback *string, previous *types.DocumentVersion) (*promptSet, error) {
	data := map[string]string{
		"JobDetails":     FormatJob(job),
		"ParsedResume":   profile.ParsedResume,
		"ParsedLinkedIn": profile.ParsedLinkedIn,
		"Experience":     "",
	}
	if exp := strings.TrimSpace(profile.ParsedExperience); exp != "" {
		data["Experience"] = "\nand the user's own description of their experience:\n" + exp + "\n"
	}

	coverKey, resumeKey := keyCoverLetter, keyResume
	coverData, resumeData := data, data
	if feedback != nil {
		coverKey, resumeKey = keyCoverLetterRevision, keyResumeRevision
		data["Feedback"] = *feedback

		coverData = withPrevious(data, previous, "cover letter", func(v *types.DocumentVersion) string { return v.CoverLetter })
		resumeData = withPrevious(data, previous, "resume", func(v *types.DocumentVersion) string { return v.Resume })
	}

	cover, err := prompts.Render(prompts.DocumentsFile, coverKey, coverData)
	if err != nil {
		return nil, err
	}
	resume, err := prompts.Render(prompts.DocumentsFile, resumeKey, resumeData)
	if err != nil {
		return nil, err
	}
	return &promptSet{coverLetter: cover, resume: resume}, nil
}

// withPrevious copies data and sets the Previous placeholder from the prior version.
func withPrevious(data map[string]string, previous *types.DocumentVersion, label string, text func(*types.DocumentVersion) string) map[string]string {
	out := make(map[string]string, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["Previous"] = ""
	if previous != nil && strings.TrimSpace(text(previous)) != "" {
		out["Previous"] = "\nThe previous " + label + " was:\n" + text(previous) + "\n"
	}
	return out
}
