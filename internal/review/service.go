// Package review orchestrates one round of the essay feedback loop:
// classify what changed, plan suggestion generation, call the AI where
// the plan demands it, derive the next score, and persist the result.
//
// AI calls always happen before any state is written, so a provider
// failure leaves the assist exactly as it was.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/everwrite/essay-coach/internal/classify"
	"github.com/everwrite/essay-coach/internal/content"
	"github.com/everwrite/essay-coach/internal/db"
	"github.com/everwrite/essay-coach/internal/scoring"
	"github.com/everwrite/essay-coach/internal/suggest"
	"github.com/everwrite/essay-coach/internal/types"
	"github.com/everwrite/essay-coach/internal/version"
)

// Store is the persistence surface the service needs.
type Store interface {
	CreateAssist(ctx context.Context, essayPrompt, content string) (*db.Assist, error)
	GetAssist(ctx context.Context, id uuid.UUID) (*db.Assist, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	SaveState(ctx context.Context, id uuid.UUID, expectedToken int64, state db.AssistState) error
	RecordAppliedSuggestion(ctx context.Context, assistID uuid.UUID, rec types.AppliedSuggestion) (string, error)
	ListAppliedSuggestions(ctx context.Context, assistID uuid.UUID) ([]types.AppliedSuggestion, error)
}

// Generator is the AI surface the service needs.
type Generator interface {
	GenerateBaselineScore(ctx context.Context, essayPrompt, content string) (types.ReviewScore, error)
	GenerateSuggestions(ctx context.Context, essayPrompt, content string, count int, genType types.GenerationType, focused []types.Region) ([]types.Suggestion, error)
}

// Service coordinates review rounds for essay assists.
type Service struct {
	store     Store
	gen       Generator
	planner   *suggest.Planner
	estimator scoring.QualityEstimator
	logger    *zap.Logger
	locks     *assistLocks
}

// NewService creates a review service. A nil estimator falls back to
// the built-in heuristic; a nil logger falls back to a no-op logger.
func NewService(store Store, gen Generator, planner *suggest.Planner, estimator scoring.QualityEstimator, logger *zap.Logger) *Service {
	if planner == nil {
		planner = suggest.NewPlanner(suggest.DefaultCountRange(), nil)
	}
	if estimator == nil {
		estimator = scoring.HeuristicEstimator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		gen:       gen,
		planner:   planner,
		estimator: estimator,
		logger:    logger,
		locks:     newAssistLocks(),
	}
}

// CreateAssist starts a new essay-editing session.
func (s *Service) CreateAssist(ctx context.Context, essayPrompt, essayContent string) (*db.Assist, error) {
	assist, err := s.store.CreateAssist(ctx, essayPrompt, essayContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	s.logger.Info("assist created", zap.String("assist_id", assist.ID.String()))
	return assist, nil
}

// GetAssist loads an assist by ID.
func (s *Service) GetAssist(ctx context.Context, assistID string) (*db.Assist, error) {
	id, err := parseAssistID(assistID)
	if err != nil {
		return nil, err
	}
	assist, err := s.store.GetAssist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	if assist == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssistNotFound, assistID)
	}
	return assist, nil
}

// SaveContent is the autosave path. It overwrites the draft without
// classifying, scoring, or touching the concurrency token.
func (s *Service) SaveContent(ctx context.Context, assistID, essayContent string) error {
	id, err := parseAssistID(assistID)
	if err != nil {
		return err
	}
	if essayContent == "" {
		return fmt.Errorf("%w: content must not be empty", ErrInput)
	}
	if err := s.store.UpdateContent(ctx, id, essayContent); err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	return nil
}

// GenerateReview runs one full review round for an assist.
func (s *Service) GenerateReview(ctx context.Context, req types.ReviewRequest) (*types.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	id, err := parseAssistID(req.AssistID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(req.AssistID)
	defer unlock()

	assist, err := s.store.GetAssist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	if assist == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssistNotFound, req.AssistID)
	}

	normalized := content.Normalize(req.Content)
	if len(normalized) < types.MinReviewContentLength {
		return nil, fmt.Errorf("%w: essay too short for review (%d chars)", ErrInput, len(normalized))
	}

	versions, scorer, tracker, err := s.loadStores(assist)
	if err != nil {
		return nil, err
	}

	isFirst := req.IsFirstReview || versions.Len() == 0 || !scorer.HasBaseline()

	var tr types.Transition
	if !isFirst {
		latest, lerr := versions.Latest()
		if lerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrState, lerr)
		}
		applied := appliedRecords(tracker.Previous(), req.AppliedSuggestionIDs)
		tr = classify.ClassifyDetailed(latest.Content, normalized, applied)
	}

	plan := s.planner.Plan(tr, isFirst)

	// The stored essay prompt drives generation unless the request
	// carries its own for this round.
	essayPrompt := assist.EssayPrompt
	if req.Prompt != "" {
		essayPrompt = req.Prompt
	}

	// All AI legs run before any state mutation. A failed leg aborts
	// the round with the assist untouched.
	var baseline types.ReviewScore
	var fresh []types.Suggestion

	g, gctx := errgroup.WithContext(ctx)
	if isFirst {
		g.Go(func() error {
			var gerr error
			baseline, gerr = s.gen.GenerateBaselineScore(gctx, essayPrompt, normalized)
			return gerr
		})
	}
	if plan.Type != types.GenerationScoreUpdateOnly {
		g.Go(func() error {
			var gerr error
			fresh, gerr = s.gen.GenerateSuggestions(gctx, essayPrompt, normalized,
				plan.SuggestionCount, plan.Type, plan.FocusedRegions)
			return gerr
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("review generation failed",
			zap.String("assist_id", req.AssistID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamGeneration, err)
	}

	var score types.ReviewScore
	if isFirst {
		versions.CreateInitial(normalized)
		score, err = scorer.SetBaseline(baseline)
	} else {
		// An unchanged essay is not a new version; the score history
		// still records the round.
		if tr.Type() != types.TransitionNoChange {
			if _, verr := versions.Append(normalized, tr); verr != nil {
				return nil, fmt.Errorf("%w: %v", ErrState, verr)
			}
		}
		for _, sid := range req.AppliedSuggestionIDs {
			tracker.MarkApplied(sid)
		}
		score, err = scorer.Calculate(tr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}

	final := s.assembleSuggestions(plan, fresh, tracker, normalized, scorer)

	if err := s.saveStores(ctx, assist, normalized, versions, scorer, tracker, score); err != nil {
		return nil, err
	}

	changeType := types.TransitionInitial
	changeCount := 0
	if tr != nil {
		changeType = tr.Type()
		changeCount = tr.ChangeCount()
	}
	s.logger.Info("review round completed",
		zap.String("assist_id", req.AssistID),
		zap.String("change_type", string(changeType)),
		zap.String("generation_type", string(plan.Type)),
		zap.Int("overall_score", score.OverallScore),
		zap.Int("suggestions", len(final)))

	return &types.ReviewResponse{
		Review: types.ReviewPayload{
			OverallScore:   score.OverallScore,
			Metrics:        score.Metrics,
			SubGrades:      score.SubGrades,
			Suggestions:    final,
			Version:        score.Version,
			GenerationType: plan.Type,
			FocusedRegions: plan.FocusedRegions,
		},
		ChangeType:      changeType,
		ChangesCount:    changeCount,
		SuggestionCount: len(final),
		GenerationType:  plan.Type,
	}, nil
}

// assembleSuggestions produces the list returned for this round.
// Score-only rounds reuse the still-active previous list; full rounds
// replace it; targeted rounds merge new high-priority items into it.
// Every freshly generated suggestion registers its impact with the
// scorer so a later application can be credited.
func (s *Service) assembleSuggestions(plan suggest.GenerationPlan, fresh []types.Suggestion, tracker *suggest.Tracker, essay string, scorer *scoring.Scorer) []types.Suggestion {
	if plan.Type == types.GenerationScoreUpdateOnly {
		return tracker.Active(essay)
	}

	finalized := suggest.Finalize(fresh, plan)
	for _, sg := range finalized {
		if sg.Impact != nil {
			scorer.RegisterImpact(*sg.Impact)
		}
	}

	var final []types.Suggestion
	if plan.Type == types.GenerationTargeted {
		final = suggest.Order(append(tracker.Active(essay), finalized...))
	} else {
		final = finalized
	}
	tracker.SetPrevious(final)
	return final
}

// ApplySuggestion records the user accepting a suggestion in the editor
// and returns the updated essay text.
func (s *Service) ApplySuggestion(ctx context.Context, assistID string, req types.ApplySuggestionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInput, err)
	}
	id, err := parseAssistID(assistID)
	if err != nil {
		return "", err
	}

	unlock := s.locks.lock(assistID)
	defer unlock()

	assist, err := s.store.GetAssist(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrState, err)
	}
	if assist == nil {
		return "", fmt.Errorf("%w: %s", ErrAssistNotFound, assistID)
	}

	versions, scorer, tracker, err := s.loadStores(assist)
	if err != nil {
		return "", err
	}
	if tracker.IsApplied(req.SuggestionUUID) {
		return "", fmt.Errorf("%w: suggestion %s already applied", ErrInput, req.SuggestionUUID)
	}
	if tracker.IsSkipped(req.SuggestionUUID) {
		return "", fmt.Errorf("%w: suggestion %s was skipped", ErrInput, req.SuggestionUUID)
	}

	target, found := findSuggestion(tracker.Previous(), req.SuggestionUUID)
	if !found {
		return "", fmt.Errorf("%w: unknown suggestion %s", ErrInput, req.SuggestionUUID)
	}

	updated, err := spliceReplacement(assist.Content, target)
	if err != nil {
		return "", err
	}

	tracker.MarkApplied(req.SuggestionUUID)

	rec := types.AppliedSuggestion{
		SuggestionUUID:  target.UUID,
		OriginalText:    target.OriginalText,
		ReplacementText: target.Replacement,
		StartIndex:      target.StartIndex,
		EndIndex:        target.EndIndex,
		Category:        target.Category,
		AppliedAt:       time.Now().UTC(),
	}
	if _, err := s.store.RecordAppliedSuggestion(ctx, id, rec); err != nil {
		return "", fmt.Errorf("%w: %v", ErrState, err)
	}

	if err := s.saveStores(ctx, assist, updated, versions, scorer, tracker, types.ReviewScore{}); err != nil {
		return "", err
	}

	s.logger.Info("suggestion applied",
		zap.String("assist_id", assistID),
		zap.String("suggestion_uuid", req.SuggestionUUID))
	return updated, nil
}

// SkipSuggestion marks a suggestion as dismissed so it never resurfaces.
func (s *Service) SkipSuggestion(ctx context.Context, assistID, suggestionUUID string) error {
	if suggestionUUID == "" {
		return fmt.Errorf("%w: suggestion uuid required", ErrInput)
	}
	id, err := parseAssistID(assistID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(assistID)
	defer unlock()

	assist, err := s.store.GetAssist(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	if assist == nil {
		return fmt.Errorf("%w: %s", ErrAssistNotFound, assistID)
	}

	versions, scorer, tracker, err := s.loadStores(assist)
	if err != nil {
		return err
	}
	tracker.MarkSkipped(suggestionUUID)

	return s.saveStores(ctx, assist, assist.Content, versions, scorer, tracker, types.ReviewScore{})
}

// Versions returns the assist's version history, oldest first.
func (s *Service) Versions(ctx context.Context, assistID string) ([]types.EssayVersion, error) {
	assist, err := s.GetAssist(ctx, assistID)
	if err != nil {
		return nil, err
	}
	versions, err := version.Deserialize(string(assist.VersionState))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	return versions.History(), nil
}

// Scores returns the assist's score history, oldest first.
func (s *Service) Scores(ctx context.Context, assistID string) ([]types.ReviewScore, error) {
	assist, err := s.GetAssist(ctx, assistID)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.DeserializeWithEstimator(string(assist.ScoringState), s.estimator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	return scorer.History(), nil
}

// ActiveSuggestions returns the suggestions still pending for an assist.
func (s *Service) ActiveSuggestions(ctx context.Context, assistID string) ([]types.Suggestion, error) {
	assist, err := s.GetAssist(ctx, assistID)
	if err != nil {
		return nil, err
	}
	tracker, err := suggest.Deserialize(string(assist.TrackerState))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	return tracker.Active(assist.Content), nil
}

func (s *Service) loadStores(assist *db.Assist) (*version.Store, *scoring.Scorer, *suggest.Tracker, error) {
	versions, err := version.Deserialize(string(assist.VersionState))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: version state: %v", ErrState, err)
	}
	scorer, err := scoring.DeserializeWithEstimator(string(assist.ScoringState), s.estimator)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: scoring state: %v", ErrState, err)
	}
	tracker, err := suggest.Deserialize(string(assist.TrackerState))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: tracker state: %v", ErrState, err)
	}
	return versions, scorer, tracker, nil
}

func (s *Service) saveStores(ctx context.Context, assist *db.Assist, essay string, versions *version.Store, scorer *scoring.Scorer, tracker *suggest.Tracker, lastScore types.ReviewScore) error {
	versionState, err := versions.Serialize()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	scoringState, err := scorer.Serialize()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	trackerState, err := tracker.Serialize()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}

	state := db.AssistState{
		Content:      essay,
		VersionState: []byte(versionState),
		ScoringState: []byte(scoringState),
		TrackerState: []byte(trackerState),
	}
	if lastScore.Version != "" {
		lastReview, merr := json.Marshal(lastScore)
		if merr != nil {
			return fmt.Errorf("%w: %v", ErrState, merr)
		}
		state.LastReview = lastReview
	}

	if err := s.store.SaveState(ctx, assist.ID, assist.StateToken, state); err != nil {
		if errors.Is(err, db.ErrStateConflict) {
			return fmt.Errorf("%w: %s", ErrConcurrentModification, assist.ID)
		}
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	return nil
}

func parseAssistID(assistID string) (uuid.UUID, error) {
	id, err := uuid.Parse(assistID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid assist id %q", ErrInput, assistID)
	}
	return id, nil
}

// appliedRecords resolves just-applied suggestion IDs back to their
// full records so classification can verify each replacement landed.
func appliedRecords(previous []types.Suggestion, ids []string) []types.AppliedSuggestion {
	if len(ids) == 0 {
		return nil
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var out []types.AppliedSuggestion
	for _, sg := range previous {
		if !idSet[sg.UUID] {
			continue
		}
		out = append(out, types.AppliedSuggestion{
			SuggestionUUID:  sg.UUID,
			OriginalText:    sg.OriginalText,
			ReplacementText: sg.Replacement,
			StartIndex:      sg.StartIndex,
			EndIndex:        sg.EndIndex,
			Category:        sg.Category,
		})
	}
	return out
}

func findSuggestion(suggestions []types.Suggestion, id string) (types.Suggestion, bool) {
	for _, sg := range suggestions {
		if sg.UUID == id {
			return sg, true
		}
	}
	return types.Suggestion{}, false
}

// spliceReplacement applies a suggestion to the essay. The recorded
// indices are trusted only if they still frame the original text;
// otherwise the span is re-located, and an essay that no longer
// contains it rejects the application.
func spliceReplacement(essay string, sg types.Suggestion) (string, error) {
	start, end := sg.StartIndex, sg.EndIndex
	if start < 0 || end > len(essay) || start > end || essay[start:end] != sg.OriginalText {
		idx := strings.Index(essay, sg.OriginalText)
		if idx < 0 {
			return "", fmt.Errorf("%w: suggestion target text no longer present", ErrInput)
		}
		start, end = idx, idx+len(sg.OriginalText)
	}
	return essay[:start] + sg.Replacement + essay[end:], nil
}
