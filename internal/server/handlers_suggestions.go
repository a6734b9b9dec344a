package server

import (
	"encoding/json"
	"net/http"

	"github.com/everwrite/essay-coach/internal/types"
)

// ApplySuggestionResponse represents the response after applying a suggestion
type ApplySuggestionResponse struct {
	SuggestionUUID string `json:"suggestion_uuid"`
	Content        string `json:"content"`
}

// handleListSuggestions returns the suggestions still active for an assist
func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.reviews.ActiveSuggestions(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// handleApplySuggestion applies a suggestion's replacement to the essay
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	var req types.ApplySuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.SuggestionUUID = r.PathValue("suggestion_id")

	content, err := s.reviews.ApplySuggestion(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ApplySuggestionResponse{
		SuggestionUUID: req.SuggestionUUID,
		Content:        content,
	})
}

// handleSkipSuggestion marks a suggestion as dismissed by the user
func (s *Server) handleSkipSuggestion(w http.ResponseWriter, r *http.Request) {
	suggestionUUID := r.PathValue("suggestion_id")

	if err := s.reviews.SkipSuggestion(r.Context(), r.PathValue("id"), suggestionUUID); err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"suggestion_uuid": suggestionUUID,
		"status":          "skipped",
	})
}
