//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/progress"
)

// AssessmentSubmitRequest carries one step assessment score. Score is a pointer
// so an omitted score is told apart from a zero. Its bounds come from the
// catalog policy and are checked by the progress service.
type AssessmentSubmitRequest struct {
	Domain string `json:"domain" validate:"required"`
	StepID string `json:"step_id" validate:"required"`
	Score  *int   `json:"score" validate:"required"`
}

// AssessmentResponse reports the outcome of a step or final assessment.
type AssessmentResponse struct {
	Passed bool `json:"passed"`
	Score  int  `json:"score"`
}

// VideoSuggestionRequest proposes a YouTube video for a roadmap step.
type VideoSuggestionRequest struct {
	Domain string `json:"domain" validate:"required"`
	StepID string `json:"step_id" validate:"required"`
	Title  string `json:"title" validate:"required,min=3,max=120"`
	URL    string `json:"url" validate:"required,youtube_url"`
}

// ResumeRequest is the full resume document stored for the caller.
type ResumeRequest struct {
	Summary    string              `json:"summary" validate:"required,min=30,max=1000"`
	Skills     []string            `json:"skills" validate:"max=50,dive,min=2,max=40"`
	Education  []db.EducationItem  `json:"education" validate:"max=20,dive"`
	Experience []db.ExperienceItem `json:"experience" validate:"max=30,dive"`
	Projects   []db.ProjectItem    `json:"projects" validate:"max=30,dive"`
}

// RoadmapResponse lists the ordered steps of a domain.
type RoadmapResponse struct {
	Domain string         `json:"domain"`
	Steps  []catalog.Step `json:"steps"`
}

// DashboardResponse lists the caller's per-domain completion.
type DashboardResponse struct {
	Items []progress.Summary `json:"items"`
}
