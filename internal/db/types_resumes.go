package db

import (
	"time"

	"github.com/google/uuid"
)

// EducationItem is one education entry of a resume.
type EducationItem struct {
	Degree      string `json:"degree" validate:"required,min=2,max=120"`
	Institution string `json:"institution" validate:"required,min=2,max=160"`
	Start       string `json:"start" validate:"required,max=20"`
	End         string `json:"end" validate:"required,max=20"`
}

// ExperienceItem is one work experience entry of a resume.
type ExperienceItem struct {
	Role        string `json:"role" validate:"required,min=2,max=120"`
	Company     string `json:"company" validate:"required,min=2,max=160"`
	Start       string `json:"start" validate:"required,max=20"`
	End         string `json:"end" validate:"required,max=20"`
	Description string `json:"description" validate:"max=1000"`
}

// ProjectItem is one project entry of a resume.
type ProjectItem struct {
	Name        string   `json:"name" validate:"required,min=2,max=120"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Tech        []string `json:"tech" validate:"dive,min=1,max=40"`
	Link        string   `json:"link,omitempty" validate:"omitempty,url"`
}

// Resume is a user's single stored resume.
type Resume struct {
	UserID     uuid.UUID        `json:"user_id"`
	Summary    string           `json:"summary"`
	Skills     []string         `json:"skills"`
	Education  []EducationItem  `json:"education"`
	Experience []ExperienceItem `json:"experience"`
	Projects   []ProjectItem    `json:"projects"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// VideoSuggestion is a learner-submitted video for a roadmap step.
type VideoSuggestion struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Domain      string    `json:"domain"`
	StepID      string    `json:"step_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	SubmittedAt time.Time `json:"submitted_at"`
}
