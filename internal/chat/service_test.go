package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everwrite/essay-coach/internal/db"
	"github.com/everwrite/essay-coach/internal/llm"
	"github.com/everwrite/essay-coach/internal/review"
	"github.com/everwrite/essay-coach/internal/types"
)

type fakeStore struct {
	assist   *db.Assist
	messages []types.ChatMessage
}

func (f *fakeStore) GetAssist(_ context.Context, id uuid.UUID) (*db.Assist, error) {
	if f.assist == nil || f.assist.ID != id {
		return nil, nil
	}
	return f.assist, nil
}

func (f *fakeStore) AddChatMessage(_ context.Context, _ uuid.UUID, msg types.ChatMessage) (types.ChatMessage, error) {
	msg.ID = uuid.NewString()
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeStore) ListChatMessages(context.Context, uuid.UUID) ([]types.ChatMessage, error) {
	return f.messages, nil
}

type fakeGen struct {
	reply       llm.ChatReply
	err         error
	lastHistory []types.ChatMessage
	lastMessage string
}

func (f *fakeGen) GenerateChatReply(_ context.Context, _ string, history []types.ChatMessage, message string) (llm.ChatReply, error) {
	f.lastHistory = history
	f.lastMessage = message
	return f.reply, f.err
}

func setup() (*Service, *fakeStore, *fakeGen) {
	store := &fakeStore{assist: &db.Assist{
		ID:      uuid.New(),
		Content: "My first debate changed how I argue.",
	}}
	gen := &fakeGen{reply: llm.ChatReply{
		Reply: "Lean into the debate story.",
		Highlights: []types.Highlight{
			{StartIndex: 0, EndIndex: 15, Excerpt: "My first debate"},
		},
	}}
	return NewService(store, gen, nil), store, gen
}

func TestSendPersistsBothTurns(t *testing.T) {
	svc, store, gen := setup()

	saved, err := svc.Send(context.Background(), store.assist.ID.String(), types.ChatRequest{
		Message: "What should I expand?",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleCounselor, saved.Role)
	assert.Equal(t, "Lean into the debate story.", saved.Content)
	require.Len(t, saved.Highlights, 1)

	require.Len(t, store.messages, 2)
	assert.Equal(t, RoleUser, store.messages[0].Role)
	assert.Equal(t, "What should I expand?", store.messages[0].Content)
	assert.Equal(t, "What should I expand?", gen.lastMessage)
}

func TestSendFailureLeavesHistoryUntouched(t *testing.T) {
	svc, store, gen := setup()
	gen.err = errors.New("provider timeout")

	_, err := svc.Send(context.Background(), store.assist.ID.String(), types.ChatRequest{
		Message: "Hello?",
	})
	require.ErrorIs(t, err, review.ErrUpstreamGeneration)
	assert.Empty(t, store.messages)
}

func TestSendPassesPriorHistory(t *testing.T) {
	svc, store, gen := setup()

	_, err := svc.Send(context.Background(), store.assist.ID.String(), types.ChatRequest{Message: "First question."})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), store.assist.ID.String(), types.ChatRequest{Message: "Second question."})
	require.NoError(t, err)

	require.Len(t, gen.lastHistory, 2)
	assert.Equal(t, "First question.", gen.lastHistory[0].Content)
}

func TestSendValidation(t *testing.T) {
	svc, store, _ := setup()

	_, err := svc.Send(context.Background(), store.assist.ID.String(), types.ChatRequest{})
	assert.ErrorIs(t, err, review.ErrInput)

	_, err = svc.Send(context.Background(), "not-a-uuid", types.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, review.ErrInput)

	_, err = svc.Send(context.Background(), uuid.NewString(), types.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, review.ErrAssistNotFound)
}

func TestHistory(t *testing.T) {
	svc, store, _ := setup()
	_, err := svc.Send(context.Background(), store.assist.ID.String(), types.ChatRequest{Message: "Question."})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), store.assist.ID.String())
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = svc.History(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, review.ErrAssistNotFound)
}
