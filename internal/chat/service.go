// Package chat implements the counselor chat: grounded answers about
// one essay, with replies anchored to literal spans of its text.
package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/everwrite/essay-coach/internal/db"
	"github.com/everwrite/essay-coach/internal/llm"
	"github.com/everwrite/essay-coach/internal/review"
	"github.com/everwrite/essay-coach/internal/types"
)

// Roles used in persisted chat turns.
const (
	RoleUser      = "user"
	RoleCounselor = "counselor"
)

// Store is the persistence surface the chat service needs.
type Store interface {
	GetAssist(ctx context.Context, id uuid.UUID) (*db.Assist, error)
	AddChatMessage(ctx context.Context, assistID uuid.UUID, msg types.ChatMessage) (types.ChatMessage, error)
	ListChatMessages(ctx context.Context, assistID uuid.UUID) ([]types.ChatMessage, error)
}

// Generator is the AI surface the chat service needs.
type Generator interface {
	GenerateChatReply(ctx context.Context, essay string, history []types.ChatMessage, message string) (llm.ChatReply, error)
}

// Service answers counselor-chat turns against an assist's essay.
type Service struct {
	store  Store
	gen    Generator
	logger *zap.Logger
}

// NewService creates a chat service. A nil logger falls back to no-op.
func NewService(store Store, gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, gen: gen, logger: logger}
}

// Send processes one chat turn: the counselor reply is generated first,
// and only then are both turns persisted, so an AI failure leaves the
// conversation exactly as it was.
func (s *Service) Send(ctx context.Context, assistID string, req types.ChatRequest) (types.ChatMessage, error) {
	if err := req.Validate(); err != nil {
		return types.ChatMessage{}, fmt.Errorf("%w: %v", review.ErrInput, err)
	}
	id, err := uuid.Parse(assistID)
	if err != nil {
		return types.ChatMessage{}, fmt.Errorf("%w: invalid assist id %q", review.ErrInput, assistID)
	}

	assist, err := s.store.GetAssist(ctx, id)
	if err != nil {
		return types.ChatMessage{}, fmt.Errorf("%w: %v", review.ErrState, err)
	}
	if assist == nil {
		return types.ChatMessage{}, fmt.Errorf("%w: %s", review.ErrAssistNotFound, assistID)
	}

	history, err := s.store.ListChatMessages(ctx, id)
	if err != nil {
		return types.ChatMessage{}, fmt.Errorf("%w: %v", review.ErrState, err)
	}

	reply, err := s.gen.GenerateChatReply(ctx, assist.Content, history, req.Message)
	if err != nil {
		s.logger.Warn("chat generation failed",
			zap.String("assist_id", assistID), zap.Error(err))
		return types.ChatMessage{}, fmt.Errorf("%w: %v", review.ErrUpstreamGeneration, err)
	}

	if _, err := s.store.AddChatMessage(ctx, id, types.ChatMessage{
		Role:    RoleUser,
		Content: req.Message,
	}); err != nil {
		return types.ChatMessage{}, fmt.Errorf("%w: %v", review.ErrState, err)
	}

	saved, err := s.store.AddChatMessage(ctx, id, types.ChatMessage{
		Role:       RoleCounselor,
		Content:    reply.Reply,
		Highlights: reply.Highlights,
	})
	if err != nil {
		return types.ChatMessage{}, fmt.Errorf("%w: %v", review.ErrState, err)
	}

	s.logger.Info("chat turn completed",
		zap.String("assist_id", assistID),
		zap.Int("highlights", len(saved.Highlights)))
	return saved, nil
}

// History returns the assist's chat history, oldest first.
func (s *Service) History(ctx context.Context, assistID string) ([]types.ChatMessage, error) {
	id, err := uuid.Parse(assistID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid assist id %q", review.ErrInput, assistID)
	}
	assist, err := s.store.GetAssist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", review.ErrState, err)
	}
	if assist == nil {
		return nil, fmt.Errorf("%w: %s", review.ErrAssistNotFound, assistID)
	}
	messages, err := s.store.ListChatMessages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", review.ErrState, err)
	}
	return messages, nil
}
