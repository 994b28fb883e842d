package secondary

import (
	"context"

	"gitlab.com/bughunt-2025.net/internal/domain"
)

// QuestionStore provides read access to the question content store
type QuestionStore interface {
	// GetQuestion retrieves a question by ID
	GetQuestion(ctx context.Context, questionID string) (*domain.Question, error)

	// PickQuestion selects a random question of the given difficulty,
	// skipping already-used IDs
	PickQuestion(ctx context.Context, difficulty domain.Difficulty, excludeIDs []string) (*domain.Question, error)
}
