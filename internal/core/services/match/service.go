package match

import (
	"context"

	"gitlab.com/bughunt-2025.net/internal/domain"
)

// SubmissionAttempt is one player's attempt at solving the match question
type SubmissionAttempt struct {
	MatchID  string
	PlayerID string
	Language domain.Language
	Code     string
	Force    bool
}

// SubmitResult is what a submission gets back: either a validation report
// the player may retry on, or the accepted final state
type SubmitResult struct {
	Outcome    *domain.ValidationOutcome `json:"outcome"`
	Accepted   bool                      `json:"accepted"`
	FinalScore int                       `json:"finalScore,omitempty"`
	Match      *domain.Match             `json:"match,omitempty"`
}

// IMatchService owns the authoritative match lifecycle
type IMatchService interface {
	// CreateMatch creates a match around a question of the given
	// difficulty; the owner is joined automatically
	CreateMatch(ctx context.Context, ownerID string, difficulty domain.Difficulty, timeLimitSeconds int) (*domain.Match, error)

	// Join adds a player to a waiting match
	Join(ctx context.Context, matchID, playerID string) (*domain.Match, error)

	// Start moves the match to active, records the server-anchored start
	// time and arms the deadline
	Start(ctx context.Context, matchID, playerID string) (*domain.Match, error)

	// Submit validates an attempt and, when it fully passes or is forced,
	// finalizes the player and evaluates the completion predicate
	Submit(ctx context.Context, attempt SubmissionAttempt) (*SubmitResult, error)

	// Get returns a snapshot of the match; completed matches always
	// return the identical frozen ranking
	Get(ctx context.Context, matchID string) (*domain.Match, error)

	// GetQuestion returns the question a match is played on
	GetQuestion(ctx context.Context, matchID string) (*domain.Question, error)
}
