package progress

import (
	"time"

	"github.com/jonathan/lernify/internal/catalog"
)

// newRecord builds the initial state of a roadmap: the first step unlocked,
// every later step locked.
func newRecord(id, userID, domain string, stepIDs []string, now time.Time) *RoadmapProgress {
	states := make([]StepState, len(stepIDs))
	for i := range states {
		states[i] = StateLocked
	}
	if len(states) > 0 {
		states[0] = StateUnlocked
	}
	return &RoadmapProgress{
		ID:               id,
		UserID:           userID,
		Domain:           domain,
		CurrentStepIndex: 0,
		StepIDs:          stepIDs,
		StepStates:       states,
		Results:          []AssessmentResult{},
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// applyStepResult records a step submission and moves the gating states.
//
// A pass marks the step passed and unlocks the next step only when it is still
// locked, so a passed downstream step is never downgraded. A failure leaves the
// step unlocked. CurrentStepIndex only ever moves forward.
func applyStepResult(p *RoadmapProgress, stepID string, score int, passed bool, now time.Time) error {
	idx := p.IndexOf(stepID)
	if idx < 0 {
		return &catalog.UnknownStepError{Domain: p.Domain, StepID: stepID}
	}
	if p.StepStates[idx] == StateLocked {
		return &StepLockedError{Domain: p.Domain, StepID: stepID}
	}

	p.Results = append(p.Results, AssessmentResult{
		Domain:      p.Domain,
		StepID:      stepID,
		Score:       score,
		Passed:      passed,
		SubmittedAt: now,
	})

	if passed {
		p.StepStates[idx] = StatePassed
		if next := idx + 1; next < len(p.StepStates) && p.StepStates[next] == StateLocked {
			p.StepStates[next] = StateUnlocked
		}
		if idx >= p.CurrentStepIndex {
			p.CurrentStepIndex = idx + 1
		}
	} else {
		p.StepStates[idx] = StateUnlocked
	}

	p.UpdatedAt = now
	return nil
}

// applyFinalResult stores the final assessment, replacing any earlier one.
func applyFinalResult(p *RoadmapProgress, score int, passed bool, now time.Time) error {
	if !p.AllPassed() {
		return &StepsIncompleteError{Completed: p.Completed(), Total: len(p.StepStates)}
	}
	p.Final = &FinalAssessment{Score: score, Passed: passed, SubmittedAt: now}
	p.UpdatedAt = now
	return nil
}
