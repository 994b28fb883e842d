package domain

import "time"

// MatchStatus represents the lifecycle state of a match. Transitions are
// monotonic: WAITING -> ACTIVE -> COMPLETED.
type MatchStatus string

const (
	MatchStatusWaiting   MatchStatus = "WAITING"
	MatchStatusActive    MatchStatus = "ACTIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
)

// PlayerProgress tracks one player's state inside a match. Completed is
// monotonic: once true it never reverts.
type PlayerProgress struct {
	PlayerID              string   `json:"playerId"`
	JoinOrder             int      `json:"joinOrder"`
	Score                 int      `json:"score"`
	Completed             bool     `json:"completed"`
	CompletionTimeSeconds *float64 `json:"completionTimeSeconds,omitempty"`
	LastSubmittedCode     string   `json:"-"`
	LastLanguage          Language `json:"-"`
	Attempts              int      `json:"attempts"`
}

// RankingEntry is one row of the final standings
type RankingEntry struct {
	Rank                  int      `json:"rank"`
	PlayerID              string   `json:"playerId"`
	Score                 int      `json:"score"`
	CompletionTimeSeconds *float64 `json:"completionTimeSeconds,omitempty"`
}

// Match is the authoritative aggregate shared by every participant.
// Once completed no ranking-relevant field may change.
type Match struct {
	ID               string            `json:"matchId"`
	Status           MatchStatus       `json:"status"`
	QuestionID       string            `json:"questionId"`
	OwnerID          string            `json:"ownerId"`
	MinPlayers       int               `json:"minPlayers"`
	TimeLimitSeconds int               `json:"timeLimitSeconds"`
	CreatedAt        time.Time         `json:"createdAt"`
	StartedAt        *time.Time        `json:"startedAt,omitempty"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
	Players          []*PlayerProgress `json:"players"`
	Ranking          []RankingEntry    `json:"ranking,omitempty"`
}

// Player finds a player's progress by ID
func (m *Match) Player(playerID string) *PlayerProgress {
	for _, p := range m.Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}

// Elapsed computes server-anchored elapsed time, floored at zero to
// absorb clock skew
func (m *Match) Elapsed(now time.Time) float64 {
	if m.StartedAt == nil {
		return 0
	}
	elapsed := now.Sub(*m.StartedAt).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// AllCompleted reports whether every joined player has finished
func (m *Match) AllCompleted() bool {
	if len(m.Players) == 0 {
		return false
	}
	for _, p := range m.Players {
		if !p.Completed {
			return false
		}
	}
	return true
}
