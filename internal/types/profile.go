package types

import "time"

// AssetKind identifies one of the career assets a user can upload.
type AssetKind string

// Asset kinds accepted by the upload endpoint
const (
	AssetResume     AssetKind = "resume"
	AssetLinkedIn   AssetKind = "linkedin"
	AssetExperience AssetKind = "experience"
)

// AllAssetKinds returns the asset kinds in upload order.
func AllAssetKinds() []AssetKind {
	return []AssetKind{AssetResume, AssetLinkedIn, AssetExperience}
}

// Profile is a user's stored career assets and their normalized text.
type Profile struct {
	UserID           string    `json:"user_id"`
	ResumePath       string    `json:"resume,omitempty"`
	LinkedInPath     string    `json:"linkedin,omitempty"`
	ExperiencePath   string    `json:"experience,omitempty"`
	ParsedResume     string    `json:"parsed_resume,omitempty"`
	ParsedLinkedIn   string    `json:"parsed_linkedin,omitempty"`
	ParsedExperience string    `json:"parsed_experience,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileUpdate carries the fields of one upload. Nil fields are left untouched
// when merged into an existing profile.
type ProfileUpdate struct {
	ResumePath       *string
	LinkedInPath     *string
	ExperiencePath   *string
	ParsedResume     *string
	ParsedLinkedIn   *string
	ParsedExperience *string
}

// SetAsset records the raw location and parsed text for one asset kind.
func (u *ProfileUpdate) SetAsset(kind AssetKind, path, parsed string) {
	switch kind {
	case AssetResume:
		u.ResumePath, u.ParsedResume = &path, &parsed
	case AssetLinkedIn:
		u.LinkedInPath, u.ParsedLinkedIn = &path, &parsed
	case AssetExperience:
		u.ExperiencePath, u.ParsedExperience = &path, &parsed
	}
}

// Apply merges the update into p.
func (u *ProfileUpdate) Apply(p *Profile) {
	mergeString(&p.ResumePath, u.ResumePath)
	mergeString(&p.LinkedInPath, u.LinkedInPath)
	mergeString(&p.ExperiencePath, u.ExperiencePath)
	mergeString(&p.ParsedResume, u.ParsedResume)
	mergeString(&p.ParsedLinkedIn, u.ParsedLinkedIn)
	mergeString(&p.ParsedExperience, u.ParsedExperience)
}

func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
