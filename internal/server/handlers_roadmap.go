package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/progress"
	"github.com/jonathan/lernify/internal/types"
)

// ---------------------------------------------------------------------
// Domains and roadmaps
// ---------------------------------------------------------------------

func (s *Server) handleListDomains(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]string{"domains": s.catalog.Domains()})
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")

	steps, err := s.catalog.StepsFor(domain)
	if err != nil {
		// A roadmap lookup is a resource read, so an unknown domain is a 404 here.
		s.errorResponse(w, http.StatusNotFound, "unknown_domain", err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.RoadmapResponse{Domain: domain, Steps: steps})
}

func (s *Server) handleSelectDomain(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	domain := strings.TrimSpace(r.URL.Query().Get("domain"))
	if domain == "" {
		s.writeError(w, r, &ErrValidation{Field: "domain", Message: "is required"})
		return
	}
	if !s.catalog.HasDomain(domain) {
		s.writeError(w, r, &catalog.UnknownDomainError{Domain: domain})
		return
	}

	if err := s.userService.SelectDomain(r.Context(), userID, domain); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.progress.InitializeProgress(r.Context(), userID.String(), domain)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "ok", "progress": rec})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	rec, err := s.progress.GetProgress(r.Context(), userID.String(), r.PathValue("domain"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, rec)
}

// ---------------------------------------------------------------------
// Assessments
// ---------------------------------------------------------------------

func (s *Server) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.AssessmentSubmitRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	outcome, err := s.progress.SubmitAssessment(r.Context(), userID.String(), req.Domain, req.StepID, *req.Score)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AssessmentResponse{Passed: outcome.Passed, Score: outcome.Score})
}

func (s *Server) handleFinalAssessment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("score")
	if raw == "" {
		s.writeError(w, r, &ErrValidation{Field: "score", Message: "is required"})
		return
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "score", Message: "must be an integer"})
		return
	}

	outcome, err := s.progress.SubmitFinalAssessment(r.Context(), userID.String(), r.PathValue("domain"), score)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AssessmentResponse{Passed: outcome.Passed, Score: outcome.Score})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	items, err := s.progress.Dashboard(r.Context(), userID.String())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []progress.Summary{}
	}

	s.jsonResponse(w, http.StatusOK, types.DashboardResponse{Items: items})
}
