package secondary

import (
	"context"

	"gitlab.com/bughunt-2025.net/internal/domain"
)

// MatchArchive persists completed matches and their ranking snapshots
type MatchArchive interface {
	// SaveCompletedMatch stores the final match state and standings
	SaveCompletedMatch(ctx context.Context, match *domain.Match) error

	// GetRanking retrieves an archived ranking snapshot by match ID
	GetRanking(ctx context.Context, matchID string) ([]domain.RankingEntry, error)
}
