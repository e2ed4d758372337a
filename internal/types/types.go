package types

import (
	"encoding/json"
	"time"
)

// Status represents the publication lifecycle of a portfolio
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
)

// Valid reports whether s is a known status value
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusDeleted:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to target is allowed.
// Transitions are monotonic: draft -> published, draft/published -> deleted.
// Deleted is terminal.
func (s Status) CanTransition(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusPublished || target == StatusDeleted
	case StatusPublished:
		return target == StatusDeleted
	}
	return false
}

// SocialLink represents a single linked profile on the portfolio
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// PersonalInfo represents the header block of a candidate profile
type PersonalInfo struct {
	FullName    string       `json:"fullName"`
	Title       string       `json:"title"`
	Bio         string       `json:"bio"`
	Location    string       `json:"location"`
	Email       string       `json:"email"`
	SocialLinks []SocialLink `json:"socialLinks"`
}

// Experience represents a single work history entry
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Project represents a portfolio project entry
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	TechStack   []string `json:"techStack"`
}

// Meta carries artifact references attached at persistence time
type Meta struct {
	OriginalResumeURL string    `json:"originalResumeUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
}

// CandidateProfile is the canonical, normalized portfolio document.
// This is the shape stored as the JSON artifact and served by the renderer.
type CandidateProfile struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`
	Projects     []Project    `json:"projects"`
	Skills       []string     `json:"skills"`
	Meta         Meta         `json:"meta,omitzero"`
	Status       Status       `json:"status,omitempty"`
}

// RawProfile mirrors CandidateProfile with loosely typed fields, tolerating
// whatever shape the model actually returned. List-valued fields are kept as
// raw JSON so the normalizer can coerce non-array values to empty lists
// instead of failing the unmarshal.
type RawProfile struct {
	PersonalInfo RawPersonalInfo `json:"personalInfo"`
	Experience   json.RawMessage `json:"experience"`
	Projects     json.RawMessage `json:"projects"`
	Skills       json.RawMessage `json:"skills"`
}

// RawPersonalInfo is the loosely typed header block from the model
type RawPersonalInfo struct {
	FullName    string          `json:"fullName"`
	Title       string          `json:"title"`
	Bio         string          `json:"bio"`
	Location    string          `json:"location"`
	Email       string          `json:"email"`
	SocialLinks json.RawMessage `json:"socialLinks"`
}

// ScoreIssue represents a single finding within a scorecard section
type ScoreIssue struct {
	Severity   string `json:"severity"` // "critical", "warning", or "info"
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// ScoreSection represents one scored area of the resume
type ScoreSection struct {
	Name   string       `json:"name"`
	Score  int          `json:"score"` // 0-100 score
	Issues []ScoreIssue `json:"issues"`
}

// Scorecard represents the ATS-style resume evaluation
type Scorecard struct {
	OverallScore int            `json:"overallScore"` // 0-100 score
	ATSScore     int            `json:"atsScore"`     // 0-100 score
	TotalIssues  int            `json:"totalIssues"`
	Sections     []ScoreSection `json:"sections"`
}

// PortfolioRecord is the summary row indexed alongside the stored artifacts
type PortfolioRecord struct {
	FullName  string    `json:"fullName"`
	JobTitle  string    `json:"jobTitle"`
	Email     string    `json:"email"`
	Location  string    `json:"location"`
	Slug      string    `json:"slug"`
	ResumeURL string    `json:"resumeUrl"`
	JSONURL   string    `json:"jsonUrl"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
