package scraper

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/schemas"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// ErrorPayload is the body the extraction service sends instead of job fields.
type ErrorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ParseJobFields turns extraction model output into a job posting.
// The whole text is tried first (minus any code fence); otherwise the span
// from the first '{' to the last '}' is used. The candidate must satisfy the
// job posting schema. Failures are returned as *ExtractionError.
func ParseJobFields(text string) (*types.JobPosting, error) {
	candidate := llm.CleanJSONBlock(text)
	if !isJSONObject(candidate) {
		candidate = llm.ExtractJSONObject(text)
	}
	if candidate == "" {
		return nil, &ExtractionError{Details: "no JSON object found in model output", Raw: text}
	}

	if err := schemas.Validate(schemas.JobPostingSchema, candidate); err != nil {
		return nil, &ExtractionError{Details: err.Error(), Raw: text, Cause: err}
	}

	var posting types.JobPosting
	if err := json.Unmarshal([]byte(candidate), &posting); err != nil {
		return nil, &ExtractionError{Details: err.Error(), Raw: text, Cause: err}
	}
	return &posting, nil
}

// ExtractionResponse parses model output for the extraction endpoint.
// Exactly one of the results is non-nil.
func ExtractionResponse(text string) (*types.JobPosting, *ErrorPayload) {
	posting, err := ParseJobFields(text)
	if err != nil {
		return nil, &ErrorPayload{Error: "Extraction failed", Details: err.Error()}
	}
	return posting, nil
}

func isJSONObject(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}
