// Package progress implements the roadmap progress state machine: how a user's
// advancement through a domain roadmap is initialized, gated and mutated by
// assessment results.
package progress

import (
	"fmt"
	"slices"
	"time"
)

// StepState is the gating state of a single roadmap step.
type StepState string

const (
	StateLocked   StepState = "locked"
	StateUnlocked StepState = "unlocked"
	StatePassed   StepState = "passed"
)

// Valid reports whether s is a known state.
func (s StepState) Valid() bool {
	switch s {
	case StateLocked, StateUnlocked, StatePassed:
		return true
	}
	return false
}

// ParseStepState parses a serialized state.
func ParseStepState(raw string) (StepState, error) {
	s := StepState(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid step state %q", raw)
	}
	return s, nil
}

// AssessmentResult is one accepted step submission. Results are append-only.
type AssessmentResult struct {
	Domain      string    `json:"domain"`
	StepID      string    `json:"step_id"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// FinalAssessment is the comprehensive end-of-roadmap result. A resubmission replaces it.
type FinalAssessment struct {
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RoadmapProgress is a user's progress through one domain. StepIDs captures the
// catalog's step order when the record was created and StepStates is parallel to it.
type RoadmapProgress struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	Domain           string             `json:"domain"`
	CurrentStepIndex int                `json:"current_step_index"`
	StepIDs          []string           `json:"step_ids"`
	StepStates       []StepState        `json:"step_states"`
	Results          []AssessmentResult `json:"results"`
	Final            *FinalAssessment   `json:"final,omitempty"`
	Version          int64              `json:"version"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// IndexOf returns the position of stepID in the record, or -1.
func (p *RoadmapProgress) IndexOf(stepID string) int {
	return slices.Index(p.StepIDs, stepID)
}

// Completed counts passed steps.
func (p *RoadmapProgress) Completed() int {
	n := 0
	for _, s := range p.StepStates {
		if s == StatePassed {
			n++
		}
	}
	return n
}

// AllPassed reports whether every step is passed.
func (p *RoadmapProgress) AllPassed() bool {
	return len(p.StepStates) > 0 && p.Completed() == len(p.StepStates)
}

// Clone returns a deep copy.
func (p *RoadmapProgress) Clone() *RoadmapProgress {
	if p == nil {
		return nil
	}
	c := *p
	c.StepIDs = slices.Clone(p.StepIDs)
	c.StepStates = slices.Clone(p.StepStates)
	c.Results = slices.Clone(p.Results)
	if c.Results == nil {
		c.Results = []AssessmentResult{}
	}
	if p.Final != nil {
		f := *p.Final
		c.Final = &f
	}
	return &c
}

// Outcome is what a submission reports back to the caller.
type Outcome struct {
	Passed bool `json:"passed"`
	Score  int  `json:"score"`
}
