// Package types provides type definitions for structured data used throughout the jobseeker-buddy system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JobPosting holds the structured fields extracted from a job posting URL.
// Extraction is best-effort: any field may be empty.
type JobPosting struct {
	Company          string   `json:"company"`
	Role             string   `json:"role"`
	Location         string   `json:"location"`
	Salary           string   `json:"salary"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
}

// scalarText decodes a JSON string, number or boolean as text. Models
// occasionally emit "salary": 120000 instead of a string.
type scalarText string

func (s *scalarText) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = scalarText(v)
	case float64, bool:
		// Keep the literal: 120000 stays "120000", not "1.2e+05".
		*s = scalarText(strings.TrimSpace(string(data)))
	default:
		return fmt.Errorf("expected a scalar, got %s", data)
	}
	return nil
}

// jobPostingWire accepts the short keys and the long-form keys the
// extraction prompt historically asked for.
type jobPostingWire struct {
	Company             scalarText  `json:"company"`
	Role                scalarText  `json:"role"`
	Location            scalarText  `json:"location"`
	Salary              scalarText  `json:"salary"`
	Description         scalarText  `json:"description"`
	DescriptionOfRole   *scalarText `json:"description of the role"`
	Responsibilities    []string    `json:"responsibilities"`
	KeyResponsibilities []string    `json:"key responsibilities"`
	Requirements        []string    `json:"requirements"`
}

// UnmarshalJSON decodes a job posting, accepting both the short keys and the
// long-form keys ("description of the role", "key responsibilities").
func (j *JobPosting) UnmarshalJSON(data []byte) error {
	var w jobPostingWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	p := JobPosting{
		Company:          string(w.Company),
		Role:             string(w.Role),
		Location:         string(w.Location),
		Salary:           string(w.Salary),
		Description:      string(w.Description),
		Responsibilities: w.Responsibilities,
		Requirements:     w.Requirements,
	}
	if p.Description == "" && w.DescriptionOfRole != nil {
		p.Description = string(*w.DescriptionOfRole)
	}
	if len(p.Responsibilities) == 0 && len(w.KeyResponsibilities) > 0 {
		p.Responsibilities = w.KeyResponsibilities
	}

	*j = p
	j.Normalize()
	return nil
}

// Normalize trims whitespace and replaces nil lists with empty ones so the
// posting always serializes with every key present.
func (j *JobPosting) Normalize() {
	j.Company = strings.TrimSpace(j.Company)
	j.Role = strings.TrimSpace(j.Role)
	j.Location = strings.TrimSpace(j.Location)
	j.Salary = strings.TrimSpace(j.Salary)
	j.Description = strings.TrimSpace(j.Description)
	j.Responsibilities = compactList(j.Responsibilities)
	j.Requirements = compactList(j.Requirements)
}

// compactList drops blank entries and never returns nil
func compactList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
