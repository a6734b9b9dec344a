package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/everwrite/essay-coach/internal/types"
)

const timeFormat = time.RFC3339

// CreateAssistRequest represents the request body for POST /assists
type CreateAssistRequest struct {
	EssayPrompt string `json:"essay_prompt"`
	Content     string `json:"content,omitempty"`
}

// AssistResponse represents an assist returned to the client
type AssistResponse struct {
	ID          string          `json:"id"`
	EssayPrompt string          `json:"essay_prompt"`
	Content     string          `json:"content"`
	LastReview  json.RawMessage `json:"last_review,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// SaveContentRequest represents the request body for PUT /assists/{id}/content
type SaveContentRequest struct {
	Content string `json:"content"`
}

// handleCreateAssist creates a new essay-editing session
func (s *Server) handleCreateAssist(w http.ResponseWriter, r *http.Request) {
	var req CreateAssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.EssayPrompt == "" {
		s.errorResponse(w, http.StatusBadRequest, "essay_prompt is required")
		return
	}

	assist, err := s.reviews.CreateAssist(r.Context(), req.EssayPrompt, req.Content)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, AssistResponse{
		ID:          assist.ID.String(),
		EssayPrompt: assist.EssayPrompt,
		Content:     assist.Content,
		CreatedAt:   assist.CreatedAt.Format(timeFormat),
		UpdatedAt:   assist.UpdatedAt.Format(timeFormat),
	})
}

// handleGetAssist returns a single assist including its last review, if any
func (s *Server) handleGetAssist(w http.ResponseWriter, r *http.Request) {
	assist, err := s.reviews.GetAssist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}

	resp := AssistResponse{
		ID:          assist.ID.String(),
		EssayPrompt: assist.EssayPrompt,
		Content:     assist.Content,
		CreatedAt:   assist.CreatedAt.Format(timeFormat),
		UpdatedAt:   assist.UpdatedAt.Format(timeFormat),
	}
	if len(assist.LastReview) > 0 {
		resp.LastReview = json.RawMessage(assist.LastReview)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSaveContent persists an autosave of the editor content
func (s *Server) handleSaveContent(w http.ResponseWriter, r *http.Request) {
	var req SaveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.reviews.SaveContent(r.Context(), r.PathValue("id"), req.Content); err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleReview runs one review round against the submitted essay content
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req types.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.AssistID = r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), s.reviewTimeout)
	defer cancel()

	resp, err := s.reviews.GenerateReview(ctx, req)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleVersions returns the full version history for an assist
func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.reviews.Versions(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"versions": versions,
		"count":    len(versions),
	})
}

// handleScores returns the score history across review rounds
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.reviews.Scores(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"scores": scores,
		"count":  len(scores),
	})
}
