package server

import (
	"net/http"

	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/types"
)

func (s *Server) handleSuggestVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.VideoSuggestionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.catalog.StepIndex(req.Domain, req.StepID); err != nil {
		s.writeError(w, r, err)
		return
	}

	suggestion := &db.VideoSuggestion{
		UserID: userID,
		Domain: req.Domain,
		StepID: req.StepID,
		URL:    req.URL,
		Title:  req.Title,
	}
	if err := s.db.CreateVideoSuggestion(r.Context(), suggestion); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"status": "saved", "suggestion": suggestion})
}

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListVideoSuggestions(r.Context(), r.PathValue("domain"), r.PathValue("step_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []db.VideoSuggestion{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}
