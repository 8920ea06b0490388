package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStepState(t *testing.T) {
	for _, raw := range []string{"locked", "unlocked", "passed"} {
		s, err := ParseStepState(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, string(s))
	}

	_, err := ParseStepState("skipped")
	assert.Error(t, err)
}

func TestRoadmapProgress_Clone(t *testing.T) {
	orig := newRecord("id", "u1", "Go", []string{"a", "b"}, time.Now())
	orig.Final = &FinalAssessment{Score: 70, Passed: true}

	c := orig.Clone()
	c.StepStates[1] = StatePassed
	c.StepIDs[0] = "z"
	c.Final.Score = 10
	c.Results = append(c.Results, AssessmentResult{StepID: "a"})

	assert.Equal(t, StateLocked, orig.StepStates[1])
	assert.Equal(t, "a", orig.StepIDs[0])
	assert.Equal(t, 70, orig.Final.Score)
	assert.Empty(t, orig.Results)

	var nilRec *RoadmapProgress
	assert.Nil(t, nilRec.Clone())
}

func TestSummarize(t *testing.T) {
	rec := newRecord("id", "u1", "Go", []string{"a", "b", "c"}, time.Now())
	assert.Equal(t, Summary{Domain: "Go", Completed: 0, Total: 3, Percent: 0}, Summarize(rec))

	rec.StepStates = []StepState{StatePassed, StatePassed, StateUnlocked}
	assert.Equal(t, 66, Summarize(rec).Percent)

	rec.StepStates[2] = StatePassed
	rec.Final = &FinalAssessment{Score: 40, Passed: false}
	s := Summarize(rec)
	assert.Equal(t, 100, s.Percent)
	require.NotNil(t, s.FinalPassed)
	assert.False(t, *s.FinalPassed)
	assert.True(t, rec.AllPassed())
}

func TestNewRecord_SingleStep(t *testing.T) {
	rec := newRecord("id", "u1", "Go", []string{"only"}, time.Now())
	assert.Equal(t, []StepState{StateUnlocked}, rec.StepStates)
}
