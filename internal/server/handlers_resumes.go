package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/types"
)

// emptyResume is returned for users who never saved one.
func emptyResume(userID uuid.UUID) *db.Resume {
	return &db.Resume{
		UserID:     userID,
		Skills:     []string{},
		Education:  []db.EducationItem{},
		Experience: []db.ExperienceItem{},
		Projects:   []db.ProjectItem{},
	}
}

// normalizeResume replaces nil sections with empty ones so clients always see arrays.
func normalizeResume(r *db.Resume) *db.Resume {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Education == nil {
		r.Education = []db.EducationItem{}
	}
	if r.Experience == nil {
		r.Experience = []db.ExperienceItem{}
	}
	if r.Projects == nil {
		r.Projects = []db.ProjectItem{}
	}
	return r
}

func (s *Server) handleUpsertResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.ResumeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	resume := normalizeResume(&db.Resume{
		UserID:     userID,
		Summary:    req.Summary,
		Skills:     req.Skills,
		Education:  req.Education,
		Experience: req.Experience,
		Projects:   req.Projects,
	})
	if err := s.db.UpsertResume(r.Context(), resume); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "saved", "resume": resume})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	resume, err := s.db.GetResume(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resume == nil {
		resume = emptyResume(userID)
	}

	s.jsonResponse(w, http.StatusOK, normalizeResume(resume))
}
