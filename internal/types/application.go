package types

import (
	"time"

	"github.com/google/uuid"
)

// Application is one job seeker's pursuit of one job posting.
type Application struct {
	ID        uuid.UUID         `json:"id"`
	UserID    string            `json:"user_id"`
	JobURL    string            `json:"job_link"`
	Job       JobPosting        `json:"job_details"`
	Versions  []DocumentVersion `json:"versions"`
	CreatedAt time.Time         `json:"created_at"`
}

// LatestVersion returns the most recent version, or nil if none exist.
func (a *Application) LatestVersion() *DocumentVersion {
	if len(a.Versions) == 0 {
		return nil
	}
	return &a.Versions[len(a.Versions)-1]
}

// DocumentVersion is one generated cover letter and resume pair plus the
// feedback that prompted it. Feedback is nil for the initial generation.
type DocumentVersion struct {
	Seq         int       `json:"version"`
	CoverLetter string    `json:"cover_letter"`
	Resume      string    `json:"resume"`
	Feedback    *string   `json:"feedback"`
	CreatedAt   time.Time `json:"created_at"`
}

// Documents is the pair of texts returned to a caller after generation.
type Documents struct {
	CoverLetter string `json:"cover_letter"`
	Resume      string `json:"resume"`
	Version     int    `json:"version"`
}
