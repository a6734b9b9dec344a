package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/everwrite/essay-coach/internal/prompts"
	"github.com/everwrite/essay-coach/internal/schemas"
	"github.com/everwrite/essay-coach/internal/textdiff"
	"github.com/everwrite/essay-coach/internal/types"
)

// Reviewer turns raw LLM completions into typed, validated review
// artifacts. Every response is schema-checked before it is trusted, and
// suggestion spans are re-anchored against the literal essay text so a
// hallucinated quote can never produce a bogus highlight.
type Reviewer struct {
	client Client
}

// NewReviewer creates a Reviewer backed by the given client.
func NewReviewer(client Client) *Reviewer {
	return &Reviewer{client: client}
}

// GenerateBaselineScore asks the LLM for a full scored review of the essay.
func (r *Reviewer) GenerateBaselineScore(ctx context.Context, essayPrompt, content string) (types.ReviewScore, error) {
	tmpl, err := prompts.Get("review.json", "full_review")
	if err != nil {
		return types.ReviewScore{}, err
	}
	prompt := prompts.Format(tmpl, map[string]string{
		"Prompt":  essayPrompt,
		"Content": content,
	})

	raw, err := r.client.GenerateJSON(ctx, prompt, TierAdvanced)
	if err != nil {
		return types.ReviewScore{}, fmt.Errorf("baseline review generation failed: %w", err)
	}
	if err := schemas.Validate(schemas.ReviewScore, raw); err != nil {
		return types.ReviewScore{}, fmt.Errorf("baseline review response rejected: %w", err)
	}

	var score types.ReviewScore
	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		return types.ReviewScore{}, fmt.Errorf("failed to parse baseline review: %w", err)
	}
	return score, nil
}

// rawSuggestion is the wire shape the model returns; spans arrive as
// quoted text, not indices.
type rawSuggestion struct {
	Category     types.SuggestionCategory `json:"category"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	OriginalText string                   `json:"original_text"`
	Replacement  string                   `json:"replacement"`
	Priority     types.Priority           `json:"priority"`
}

// GenerateSuggestions asks the LLM for improvement suggestions per the
// generation plan. Suggestions whose quoted text cannot be located in
// the essay are dropped rather than guessed at.
func (r *Reviewer) GenerateSuggestions(ctx context.Context, essayPrompt, content string, count int, genType types.GenerationType, focused []types.Region) ([]types.Suggestion, error) {
	key := "full_suggestions"
	if genType == types.GenerationTargeted {
		key = "targeted_suggestions"
	}
	tmpl, err := prompts.Get("review.json", key)
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(tmpl, map[string]string{
		"Prompt":  essayPrompt,
		"Content": content,
		"Count":   fmt.Sprintf("%d", count),
		"Regions": regionList(focused),
	})

	raw, err := r.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, fmt.Errorf("suggestion generation failed: %w", err)
	}
	if err := schemas.Validate(schemas.Suggestions, raw); err != nil {
		return nil, fmt.Errorf("suggestion response rejected: %w", err)
	}

	var parsed struct {
		Suggestions []rawSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	return anchorSuggestions(parsed.Suggestions, content), nil
}

// anchorSuggestions locates each quoted span in the essay and fills in
// indices and region. Later duplicates of the same span anchor to the
// next occurrence so two suggestions never target identical indices.
func anchorSuggestions(raws []rawSuggestion, content string) []types.Suggestion {
	out := make([]types.Suggestion, 0, len(raws))
	searchFrom := make(map[string]int)

	for _, rs := range raws {
		if rs.OriginalText == "" {
			continue
		}
		from := searchFrom[rs.OriginalText]
		idx := -1
		if from <= len(content) {
			if rel := strings.Index(content[from:], rs.OriginalText); rel >= 0 {
				idx = from + rel
			}
		}
		if idx < 0 && from > 0 {
			idx = strings.Index(content, rs.OriginalText)
		}
		if idx < 0 {
			continue
		}
		searchFrom[rs.OriginalText] = idx + len(rs.OriginalText)

		priority := rs.Priority
		if priority == "" {
			priority = types.PriorityMedium
		}
		out = append(out, types.Suggestion{
			UUID:         uuid.NewString(),
			Category:     rs.Category,
			Title:        rs.Title,
			Description:  rs.Description,
			StartIndex:   idx,
			EndIndex:     idx + len(rs.OriginalText),
			Replacement:  rs.Replacement,
			OriginalText: rs.OriginalText,
			Region:       textdiff.RegionAt(idx, len(content)),
			Priority:     priority,
		})
	}
	return out
}

func regionList(regions []types.Region) string {
	if len(regions) == 0 {
		return "whole essay"
	}
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// ChatReply is a counselor answer with essay spans it refers to.
type ChatReply struct {
	Reply      string
	Highlights []types.Highlight
}

// GenerateChatReply answers a counselor-chat turn. Quotes the model
// returns are resolved to literal spans of the essay; unmatched quotes
// are silently dropped.
func (r *Reviewer) GenerateChatReply(ctx context.Context, content string, history []types.ChatMessage, message string) (ChatReply, error) {
	tmpl, err := prompts.Get("chat.json", "counselor")
	if err != nil {
		return ChatReply{}, err
	}
	prompt := prompts.Format(tmpl, map[string]string{
		"Content": content,
		"History": renderHistory(history),
		"Message": message,
	})

	raw, err := r.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return ChatReply{}, fmt.Errorf("chat generation failed: %w", err)
	}
	if err := schemas.Validate(schemas.ChatReply, raw); err != nil {
		return ChatReply{}, fmt.Errorf("chat response rejected: %w", err)
	}

	var parsed struct {
		Reply  string   `json:"reply"`
		Quotes []string `json:"quotes"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return ChatReply{}, fmt.Errorf("failed to parse chat reply: %w", err)
	}

	reply := ChatReply{Reply: parsed.Reply}
	for _, quote := range parsed.Quotes {
		if quote == "" {
			continue
		}
		idx := strings.Index(content, quote)
		if idx < 0 {
			continue
		}
		reply.Highlights = append(reply.Highlights, types.Highlight{
			StartIndex: idx,
			EndIndex:   idx + len(quote),
			Excerpt:    quote,
		})
	}
	return reply, nil
}

func renderHistory(history []types.ChatMessage) string {
	if len(history) == 0 {
		return "(no prior messages)"
	}
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
