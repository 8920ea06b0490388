package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/server/middleware"
	"github.com/jonathan/lernify/internal/types"
)

// currentUser returns the authenticated user ID, writing a 401 when absent.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	user, err := s.userService.Profile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "updated", "user": user})
}
