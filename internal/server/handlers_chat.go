package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/everwrite/essay-coach/internal/types"
)

// streamChunkWords is how many words each SSE delta event carries.
const streamChunkWords = 8

// handleChatHistory returns the full chat transcript for an assist
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := s.chats.History(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"messages": messages,
		"count":    len(messages),
	})
}

// handleChat sends one chat turn and returns the counselor reply
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	reply, err := s.chats.Send(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, reply)
}

// handleChatStream sends one chat turn and streams the counselor reply
// over SSE: delta events carrying reply text, then a complete event with
// the full persisted message including highlights.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply, err := s.chats.Send(r.Context(), r.PathValue("id"), req)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	for _, chunk := range chunkWords(reply.Content, streamChunkWords) {
		if err := sse.WriteDelta(chunk); err != nil {
			// Client went away; the turn is already persisted.
			return
		}
	}
	sse.WriteComplete(reply)
}

// chunkWords splits text into chunks of at most n words, preserving the
// original spacing between chunks.
func chunkWords(text string, n int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += n {
		end := i + n
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if end < len(words) {
			chunk += " "
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
