// package matcharchive contains the PostgreSQL implementation of the
// completed-match archive
package matcharchive

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/ports/secondary"
	"gitlab.com/bughunt-2025.net/internal/domain"
	querybuilder "gitlab.com/bughunt-2025.net/internal/utils"
)

var _ secondary.MatchArchive = (*MatchArchive)(nil)

// MatchArchive implements the MatchArchive interface with PostgreSQL
type MatchArchive struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

// NewMatchArchive creates a new PostgreSQL match archive
func NewMatchArchive(db *sqlx.DB, logger primary.Logger, schema string) *MatchArchive {
	return &MatchArchive{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

// SaveCompletedMatch stores the match row and its ranking snapshot.
// Upserts on match id so a crashed retry never duplicates rows.
func (r *MatchArchive) SaveCompletedMatch(ctx context.Context, match *domain.Match) error {
	query := `
		INSERT INTO matches (
			id, question_id, owner_id, time_limit_seconds,
			started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			completed_at = EXCLUDED.completed_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		match.ID,
		match.QuestionID,
		match.OwnerID,
		match.TimeLimitSeconds,
		match.StartedAt,
		match.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save match", "matchId", match.ID, "error", err)
		return fmt.Errorf("failed to save match: %w", err)
	}

	if len(match.Ranking) == 0 {
		return nil
	}

	builder := querybuilder.NewQueryBuilder(r.schema).
		Insert("match_id", "rank", "player_id", "score", "completion_time_seconds").
		Into("match_rankings").
		OnConflict("match_id", "player_id").
		SetExclude("rank", "score", "completion_time_seconds")
	for _, entry := range match.Ranking {
		builder = builder.Values(match.ID, entry.Rank, entry.PlayerID, entry.Score, entry.CompletionTimeSeconds)
	}

	rankQuery, args := builder.Build()
	if rankQuery == "" {
		return fmt.Errorf("failed to build ranking insert for match %s", match.ID)
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(rankQuery), args...)
	if err != nil {
		r.logger.Error("Failed to save ranking", "matchId", match.ID, "error", err)
		return fmt.Errorf("failed to save ranking: %w", err)
	}

	r.logger.Info("Match archived", "matchId", match.ID, "players", len(match.Ranking))
	return nil
}

// GetRanking retrieves an archived ranking snapshot by match ID
func (r *MatchArchive) GetRanking(ctx context.Context, matchID string) ([]domain.RankingEntry, error) {
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select("rank", "player_id", "score", "completion_time_seconds").
		From("match_rankings").
		Where("match_id = ?", matchID).
		OrderBy("rank", true).
		Build()

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var ranking []domain.RankingEntry
	for rows.Next() {
		var entry domain.RankingEntry
		if err := rows.Scan(&entry.Rank, &entry.PlayerID, &entry.Score, &entry.CompletionTimeSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		ranking = append(ranking, entry)
	}
	return ranking, rows.Err()
}
