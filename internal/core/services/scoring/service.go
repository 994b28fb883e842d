package scoring

import (
	"context"

	"gitlab.com/bughunt-2025.net/internal/domain"
)

// CodeRunner is the synchronous execution path used to validate
// submissions; satisfied by the execution service
type CodeRunner interface {
	RunOnce(ctx context.Context, lang domain.Language, code string, stdin string) (*domain.ExecOutcome, error)
}

// IScoringService validates submissions against question test cases and
// computes final scores
type IScoringService interface {
	// Validate runs the code against every test case and reports
	// correctness. A returned error is a transport or availability
	// problem, never a wrong answer.
	Validate(ctx context.Context, lang domain.Language, code string, testCases []domain.TestCase) (*domain.ValidationOutcome, error)

	// FinalScore combines correctness with a time bonus. Submissions with
	// zero passing tests always score exactly zero.
	FinalScore(outcome *domain.ValidationOutcome, elapsedSeconds, timeLimitSeconds float64) int
}
