package match

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"gitlab.com/bughunt-2025.net/internal/config"
	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/ports/secondary"
	"gitlab.com/bughunt-2025.net/internal/core/services/scoring"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

var _ IMatchService = (*MatchService)(nil)

// matchState pairs the authoritative aggregate with its single-writer
// guard. Every mutation of the match happens under mu; remote executions
// never do.
type matchState struct {
	mu       sync.Mutex
	match    *domain.Match
	question *domain.Question
	deadline *time.Timer

	// finalizing covers the window between deadline expiry and the
	// completed transition, while pending code is still being validated.
	// No new attempts are admitted once it is set.
	finalizing bool
}

// MatchService implements the IMatchService interface
type MatchService struct {
	matches   *xsync.MapOf[string, *matchState]
	scorer    scoring.IScoringService
	questions secondary.QuestionStore
	archive   secondary.MatchArchive
	cfg       *config.MatchCfg
	logger    primary.Logger
}

// NewMatchService creates a new match service
func NewMatchService(
	scorer scoring.IScoringService,
	questions secondary.QuestionStore,
	archive secondary.MatchArchive,
	cfg *config.MatchCfg,
	logger primary.Logger,
) *MatchService {
	return &MatchService{
		matches:   xsync.NewMapOf[string, *matchState](),
		scorer:    scorer,
		questions: questions,
		archive:   archive,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateMatch creates a match around a freshly picked question
func (s *MatchService) CreateMatch(ctx context.Context, ownerID string, difficulty domain.Difficulty, timeLimitSeconds int) (*domain.Match, error) {
	question, err := s.questions.PickQuestion(ctx, difficulty, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to pick question: %w", err)
	}

	if timeLimitSeconds <= 0 {
		timeLimitSeconds = question.TimeLimit
	}
	if timeLimitSeconds <= 0 {
		timeLimitSeconds = s.cfg.DefaultTimeLimitSeconds
	}

	m := &domain.Match{
		ID:               uuid.New().String(),
		Status:           domain.MatchStatusWaiting,
		QuestionID:       question.ID,
		OwnerID:          ownerID,
		MinPlayers:       s.cfg.MinPlayers,
		TimeLimitSeconds: timeLimitSeconds,
		CreatedAt:        time.Now(),
		Players: []*domain.PlayerProgress{
			{PlayerID: ownerID, JoinOrder: 0},
		},
	}

	s.matches.Store(m.ID, &matchState{match: m, question: question})
	s.logger.Info("Match created",
		"matchId", m.ID,
		"questionId", question.ID,
		"owner", ownerID,
		"timeLimitSec", timeLimitSeconds)
	return snapshot(m), nil
}

// Join adds a player while the match is still waiting
func (s *MatchService) Join(ctx context.Context, matchID, playerID string) (*domain.Match, error) {
	state, err := s.state(matchID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	m := state.match
	if m.Status != domain.MatchStatusWaiting {
		return nil, errs.ErrMatchNotWaiting
	}
	if m.Player(playerID) != nil {
		return nil, errs.ErrAlreadyJoined
	}

	m.Players = append(m.Players, &domain.PlayerProgress{
		PlayerID:  playerID,
		JoinOrder: len(m.Players),
	})
	s.logger.Info("Player joined match", "matchId", matchID, "playerId", playerID)
	return snapshot(m), nil
}

// Start activates the match. The start timestamp recorded here anchors
// every elapsed-time computation; clients never supply their own clock.
func (s *MatchService) Start(ctx context.Context, matchID, playerID string) (*domain.Match, error) {
	state, err := s.state(matchID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	m := state.match
	if m.Status != domain.MatchStatusWaiting {
		return nil, errs.ErrMatchNotWaiting
	}
	if m.OwnerID != playerID {
		return nil, errs.ErrNotMatchOwner
	}
	if len(m.Players) < m.MinPlayers {
		return nil, errs.ErrNotEnoughPlayers
	}

	now := time.Now()
	m.Status = domain.MatchStatusActive
	m.StartedAt = &now

	limit := time.Duration(m.TimeLimitSeconds) * time.Second
	state.deadline = time.AfterFunc(limit, func() {
		s.finalizeOnTimeout(matchID)
	})

	s.logger.Info("Match started",
		"matchId", matchID,
		"players", len(m.Players),
		"timeLimitSec", m.TimeLimitSeconds)
	return snapshot(m), nil
}

// Submit validates one attempt. Remote executions run outside the match
// lock; state is re-checked before anything is applied.
func (s *MatchService) Submit(ctx context.Context, attempt SubmissionAttempt) (*SubmitResult, error) {
	state, err := s.state(attempt.MatchID)
	if err != nil {
		return nil, err
	}

	testCases, err := s.admitAttempt(state, attempt)
	if err != nil {
		return nil, err
	}

	outcome, err := s.scorer.Validate(ctx, attempt.Language, attempt.Code, testCases)
	if err != nil {
		return nil, err
	}

	return s.applyAttempt(state, attempt, outcome)
}

// admitAttempt checks preconditions and records the attempt under the
// match lock, returning the test cases to validate against
func (s *MatchService) admitAttempt(state *matchState, attempt SubmissionAttempt) ([]domain.TestCase, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	m := state.match
	if m.Status == domain.MatchStatusWaiting {
		return nil, errs.ErrMatchNotActive
	}
	if m.Status == domain.MatchStatusCompleted {
		return nil, errs.ErrMatchCompleted
	}
	if state.finalizing {
		// The deadline already fired; the result is converging
		return nil, errs.ErrMatchCompleted
	}

	player := m.Player(attempt.PlayerID)
	if player == nil {
		return nil, errs.ErrPlayerNotInMatch
	}
	if player.Completed {
		return nil, errs.ErrPlayerAlreadyDone
	}

	variant, ok := state.question.VariantFor(attempt.Language)
	if !ok {
		return nil, errs.ErrVariantNotFound
	}

	player.Attempts++
	player.LastSubmittedCode = attempt.Code
	player.LastLanguage = attempt.Language
	return variant.TestCases, nil
}

// applyAttempt applies the validated outcome under the match lock
func (s *MatchService) applyAttempt(state *matchState, attempt SubmissionAttempt, outcome *domain.ValidationOutcome) (*SubmitResult, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	m := state.match
	if m.Status == domain.MatchStatusCompleted {
		// The deadline fired while the code was running; the player was
		// force-finalized already. Not an error: hand back the final state.
		return &SubmitResult{Outcome: outcome, Accepted: false, Match: snapshot(m)}, nil
	}

	player := m.Player(attempt.PlayerID)
	if player == nil {
		return nil, errs.ErrPlayerNotInMatch
	}
	if player.Completed {
		return &SubmitResult{Outcome: outcome, Accepted: false, Match: snapshot(m)}, nil
	}

	if !outcome.AllPassed() && !attempt.Force {
		// The player may retry or force-accept the partial score
		return &SubmitResult{Outcome: outcome, Accepted: false}, nil
	}

	elapsed := m.Elapsed(time.Now())
	finalScore := s.scorer.FinalScore(outcome, elapsed, float64(m.TimeLimitSeconds))

	player.Score = finalScore
	player.Completed = true
	player.CompletionTimeSeconds = &elapsed

	s.logger.Info("Player finalized",
		"matchId", m.ID,
		"playerId", player.PlayerID,
		"score", finalScore,
		"forced", attempt.Force)

	if m.AllCompleted() {
		s.completeLocked(state)
	}

	return &SubmitResult{
		Outcome:    outcome,
		Accepted:   true,
		FinalScore: finalScore,
		Match:      snapshot(m),
	}, nil
}

// Get returns a point-in-time snapshot of the match
func (s *MatchService) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	state, err := s.state(matchID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return snapshot(state.match), nil
}

// GetQuestion returns the question the match is played on
func (s *MatchService) GetQuestion(ctx context.Context, matchID string) (*domain.Question, error) {
	state, err := s.state(matchID)
	if err != nil {
		return nil, err
	}
	return state.question, nil
}

func (s *MatchService) state(matchID string) (*matchState, error) {
	state, ok := s.matches.Load(matchID)
	if !ok {
		return nil, errs.ErrMatchNotFound
	}
	return state, nil
}

// pendingPlayer captures what timeout finalization needs from a player
// before releasing the lock
type pendingPlayer struct {
	playerID string
	code     string
	language domain.Language
}

// finalizeOnTimeout force-finalizes everyone still playing when the
// deadline fires. Validation of last-submitted code runs outside the
// lock; players who finished in the meantime keep their result.
func (s *MatchService) finalizeOnTimeout(matchID string) {
	state, err := s.state(matchID)
	if err != nil {
		return
	}

	state.mu.Lock()
	if state.match.Status != domain.MatchStatusActive {
		state.mu.Unlock()
		return
	}
	state.finalizing = true
	var pending []pendingPlayer
	for _, p := range state.match.Players {
		if !p.Completed {
			pending = append(pending, pendingPlayer{
				playerID: p.PlayerID,
				code:     p.LastSubmittedCode,
				language: p.LastLanguage,
			})
		}
	}
	question := state.question
	state.mu.Unlock()

	// Best-effort validation of whatever each player last submitted; a
	// player with no code at all scores zero
	scores := make(map[string]*domain.ValidationOutcome, len(pending))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	for _, p := range pending {
		if p.code == "" {
			continue
		}
		variant, ok := question.VariantFor(p.language)
		if !ok {
			continue
		}
		outcome, err := s.scorer.Validate(ctx, p.language, p.code, variant.TestCases)
		if err != nil {
			s.logger.Error("Timeout validation failed",
				"matchId", matchID,
				"playerId", p.playerID,
				"error", err)
			continue
		}
		scores[p.playerID] = outcome
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	m := state.match
	if m.Status != domain.MatchStatusActive {
		// A concurrent submission completed the match first; its snapshot
		// stands
		return
	}

	deadline := float64(m.TimeLimitSeconds)
	for _, p := range m.Players {
		if p.Completed {
			continue
		}
		// Deadline finalization carries no time bonus: remaining time is zero
		p.Score = s.scorer.FinalScore(scores[p.PlayerID], deadline, deadline)
		p.Completed = true
		p.CompletionTimeSeconds = &deadline
		s.logger.Info("Player force-finalized on timeout",
			"matchId", matchID,
			"playerId", p.PlayerID,
			"score", p.Score)
	}

	s.completeLocked(state)
}

// completeLocked performs the exactly-once transition to completed and
// publishes the ranking snapshot. Caller must hold state.mu; the status
// check makes a second concurrent trigger a no-op.
func (s *MatchService) completeLocked(state *matchState) {
	m := state.match
	if m.Status == domain.MatchStatusCompleted {
		return
	}

	now := time.Now()
	m.Status = domain.MatchStatusCompleted
	m.CompletedAt = &now
	if state.deadline != nil {
		state.deadline.Stop()
	}

	m.Ranking = computeRanking(m.Players)

	s.logger.Info("Match completed", "matchId", m.ID, "players", len(m.Players))

	if s.archive != nil {
		archived := snapshot(m)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.archive.SaveCompletedMatch(ctx, archived); err != nil {
				s.logger.Error("Failed to archive match", "matchId", archived.ID, "error", err)
			}
		}()
	}
}

// computeRanking orders players by descending score, then ascending
// completion time, then original join order (stable)
func computeRanking(players []*domain.PlayerProgress) []domain.RankingEntry {
	ordered := make([]*domain.PlayerProgress, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		ti, tj := completionTime(ordered[i]), completionTime(ordered[j])
		if ti != tj {
			return ti < tj
		}
		return ordered[i].JoinOrder < ordered[j].JoinOrder
	})

	ranking := make([]domain.RankingEntry, len(ordered))
	for i, p := range ordered {
		ranking[i] = domain.RankingEntry{
			Rank:                  i + 1,
			PlayerID:              p.PlayerID,
			Score:                 p.Score,
			CompletionTimeSeconds: p.CompletionTimeSeconds,
		}
	}
	return ranking
}

func completionTime(p *domain.PlayerProgress) float64 {
	if p.CompletionTimeSeconds == nil {
		return 0
	}
	return *p.CompletionTimeSeconds
}

// snapshot deep-copies a match so callers never alias live state
func snapshot(m *domain.Match) *domain.Match {
	out := *m
	out.Players = make([]*domain.PlayerProgress, len(m.Players))
	for i, p := range m.Players {
		cp := *p
		out.Players[i] = &cp
	}
	if m.Ranking != nil {
		out.Ranking = make([]domain.RankingEntry, len(m.Ranking))
		copy(out.Ranking, m.Ranking)
	}
	return &out
}
