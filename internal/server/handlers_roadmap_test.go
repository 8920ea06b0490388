package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/jonathan/lernify/internal/progress"
	"github.com/jonathan/lernify/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectPath(domain string) string {
	return "/select-domain?" + url.Values{"domain": {domain}}.Encode()
}

func finalPath(domain, score string) string {
	target := "/assessment/final/" + url.PathEscape(domain)
	if score != "" {
		target += "?" + url.Values{"score": {score}}.Encode()
	}
	return target
}

func submit(stepID string, score int) types.AssessmentSubmitRequest {
	return types.AssessmentSubmitRequest{Domain: frontend, StepID: stepID, Score: &score}
}

func TestListDomains(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/domains", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string][]string](t, w)
	assert.Equal(t, []string{frontend, backend, "AI & ML"}, body["domains"])
}

func TestGetRoadmap(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/roadmap/"+url.PathEscape(frontend), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	roadmap := decodeBody[types.RoadmapResponse](t, w)
	assert.Equal(t, frontend, roadmap.Domain)
	require.Len(t, roadmap.Steps, 3)
	assert.Equal(t, "html-css", roadmap.Steps[0].ID)
	assert.Equal(t, "react-basics", roadmap.Steps[2].ID)

	missing := env.do(t, http.MethodGet, "/roadmap/Cooking", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "unknown_domain", errorCode(t, missing))
}

func TestSelectDomain(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t)

	w := env.do(t, http.MethodPost, selectPath(frontend), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeBody[struct {
		Status   string                    `json:"status"`
		Progress *progress.RoadmapProgress `json:"progress"`
	}](t, w)
	assert.Equal(t, "ok", first.Status)
	require.NotNil(t, first.Progress)
	assert.Equal(t, []progress.StepState{progress.StateUnlocked, progress.StateLocked, progress.StateLocked}, first.Progress.StepStates)
	assert.Equal(t, 0, first.Progress.CurrentStepIndex)

	t.Run("selecting again keeps the record", func(t *testing.T) {
		again := env.do(t, http.MethodPost, selectPath(frontend), token, nil)
		require.Equal(t, http.StatusOK, again.Code)
		second := decodeBody[struct {
			Progress *progress.RoadmapProgress `json:"progress"`
		}](t, again)
		assert.Equal(t, first.Progress.ID, second.Progress.ID)
	})

	t.Run("domain is recorded on the profile", func(t *testing.T) {
		me := env.do(t, http.MethodGet, "/me", token, nil)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Equal(t, []string{frontend}, decodeBody[types.User](t, me).Domains)
	})

	t.Run("unknown domain", func(t *testing.T) {
		bad := env.do(t, http.MethodPost, selectPath("Cooking"), token, nil)
		assert.Equal(t, http.StatusBadRequest, bad.Code)
		assert.Equal(t, "unknown_domain", errorCode(t, bad))
	})

	t.Run("missing domain", func(t *testing.T) {
		bad := env.do(t, http.MethodPost, "/select-domain", token, nil)
		assert.Equal(t, http.StatusBadRequest, bad.Code)
		assert.Equal(t, "validation_error", errorCode(t, bad))
	})

	t.Run("requires authentication", func(t *testing.T) {
		anon := env.do(t, http.MethodPost, selectPath(frontend), "", nil)
		assert.Equal(t, http.StatusUnauthorized, anon.Code)
		assert.Equal(t, "unauthorized", errorCode(t, anon))
	})
}

func TestRoadmapProgression(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t)

	states := func(t *testing.T) []progress.StepState {
		t.Helper()
		w := env.do(t, http.MethodGet, "/progress/"+url.PathEscape(frontend), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decodeBody[progress.RoadmapProgress](t, w).StepStates
	}
	assess := func(t *testing.T, req types.AssessmentSubmitRequest) types.AssessmentResponse {
		t.Helper()
		w := env.do(t, http.MethodPost, "/assessment/submit", token, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decodeBody[types.AssessmentResponse](t, w)
	}

	// Submitting before the domain is selected.
	early := env.do(t, http.MethodPost, "/assessment/submit", token, submit("html-css", 15))
	assert.Equal(t, http.StatusConflict, early.Code)
	assert.Equal(t, "progress_not_initialized", errorCode(t, early))

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, selectPath(frontend), token, nil).Code)

	locked := env.do(t, http.MethodPost, "/assessment/submit", token, submit("js-fund", 15))
	assert.Equal(t, http.StatusConflict, locked.Code)
	assert.Equal(t, "step_locked", errorCode(t, locked))

	failed := assess(t, submit("html-css", 8))
	assert.False(t, failed.Passed)
	assert.Equal(t, 8, failed.Score)
	assert.Equal(t, []progress.StepState{progress.StateUnlocked, progress.StateLocked, progress.StateLocked}, states(t))

	passed := assess(t, submit("html-css", 12))
	assert.True(t, passed.Passed)
	assert.Equal(t, []progress.StepState{progress.StatePassed, progress.StateUnlocked, progress.StateLocked}, states(t))

	outOfRange := env.do(t, http.MethodPost, "/assessment/submit", token, submit("js-fund", 21))
	assert.Equal(t, http.StatusBadRequest, outOfRange.Code)
	assert.Equal(t, "validation_error", errorCode(t, outOfRange))

	unknownStep := env.do(t, http.MethodPost, "/assessment/submit", token, submit("rust", 15))
	assert.Equal(t, http.StatusBadRequest, unknownStep.Code)
	assert.Equal(t, "unknown_step", errorCode(t, unknownStep))

	incomplete := env.do(t, http.MethodPost, finalPath(frontend, "90"), token, nil)
	assert.Equal(t, http.StatusConflict, incomplete.Code)
	assert.Equal(t, "steps_incomplete", errorCode(t, incomplete))

	assess(t, submit("js-fund", 20))
	assess(t, submit("react-basics", 17))
	assert.Equal(t, []progress.StepState{progress.StatePassed, progress.StatePassed, progress.StatePassed}, states(t))

	t.Run("final score validation", func(t *testing.T) {
		for _, score := range []string{"", "abc", "101", "-1"} {
			w := env.do(t, http.MethodPost, finalPath(frontend, score), token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, "score %q", score)
			assert.Equal(t, "validation_error", errorCode(t, w), "score %q", score)
		}
	})

	low := env.do(t, http.MethodPost, finalPath(frontend, "55"), token, nil)
	require.Equal(t, http.StatusOK, low.Code)
	assert.False(t, decodeBody[types.AssessmentResponse](t, low).Passed)

	high := env.do(t, http.MethodPost, finalPath(frontend, "80"), token, nil)
	require.Equal(t, http.StatusOK, high.Code)
	assert.Equal(t, types.AssessmentResponse{Passed: true, Score: 80}, decodeBody[types.AssessmentResponse](t, high))

	w := env.do(t, http.MethodGet, "/progress/"+url.PathEscape(frontend), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decodeBody[progress.RoadmapProgress](t, w)
	require.NotNil(t, rec.Final)
	assert.Equal(t, 80, rec.Final.Score)
	assert.Len(t, rec.Results, 4)
	assert.Equal(t, 3, rec.CurrentStepIndex)
}

func TestSubmitAssessment_ScoreRequired(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, selectPath(frontend), token, nil).Code)

	results := func(t *testing.T) []progress.AssessmentResult {
		t.Helper()
		w := env.do(t, http.MethodGet, "/progress/"+url.PathEscape(frontend), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decodeBody[progress.RoadmapProgress](t, w).Results
	}

	missing := env.do(t, http.MethodPost, "/assessment/submit", token,
		map[string]string{"domain": frontend, "step_id": "html-css"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, "validation_error", errorCode(t, missing))
	assert.Contains(t, missing.Body.String(), "score")
	assert.Empty(t, results(t))

	null := env.do(t, http.MethodPost, "/assessment/submit", token,
		map[string]any{"domain": frontend, "step_id": "html-css", "score": nil})
	assert.Equal(t, http.StatusBadRequest, null.Code)
	assert.Empty(t, results(t))

	zero := env.do(t, http.MethodPost, "/assessment/submit", token, submit("html-css", 0))
	require.Equal(t, http.StatusOK, zero.Code, zero.Body.String())
	assert.Equal(t, types.AssessmentResponse{Passed: false, Score: 0}, decodeBody[types.AssessmentResponse](t, zero))
	require.Len(t, results(t), 1)
}

func TestFinalAssessment_NoProgress(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t)

	w := env.do(t, http.MethodPost, finalPath(backend, "70"), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_progress", errorCode(t, w))

	unknown := env.do(t, http.MethodPost, finalPath("Cooking", "70"), token, nil)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, "unknown_domain", errorCode(t, unknown))
}

func TestGetProgress_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t)

	w := env.do(t, http.MethodGet, "/progress/"+url.PathEscape(backend), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t)

	empty := env.do(t, http.MethodGet, "/dashboard/progress", token, nil)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `{"items":[]}`, empty.Body.String())

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, selectPath(frontend), token, nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, selectPath(backend), token, nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/assessment/submit", token, submit("html-css", 14)).Code)

	w := env.do(t, http.MethodGet, "/dashboard/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decodeBody[types.DashboardResponse](t, w)
	require.Len(t, dash.Items, 2)

	byDomain := map[string]progress.Summary{}
	for _, item := range dash.Items {
		byDomain[item.Domain] = item
	}
	assert.Equal(t, progress.Summary{Domain: frontend, Completed: 1, Total: 3, Percent: 33}, byDomain[frontend])
	assert.Equal(t, progress.Summary{Domain: backend, Completed: 0, Total: 3, Percent: 0}, byDomain[backend])

	t.Run("other users see only their own records", func(t *testing.T) {
		_, other := env.register(t)
		w := env.do(t, http.MethodGet, "/dashboard/progress", other, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[]}`, w.Body.String())
	})
}
