package scoring

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/bughunt-2025.net/internal/config"
	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/domain"
)

var _ IScoringService = (*ScoringService)(nil)

// ScoringService implements the IScoringService interface
type ScoringService struct {
	runner   CodeRunner
	maxBonus int
	logger   primary.Logger
}

// NewScoringService creates a new scoring service
func NewScoringService(runner CodeRunner, matchCfg *config.MatchCfg, logger primary.Logger) *ScoringService {
	return &ScoringService{
		runner:   runner,
		maxBonus: matchCfg.MaxTimeBonus,
		logger:   logger,
	}
}

// Validate runs the submission once per test case. A compile error on the
// first case fails the whole attempt without running the rest.
func (s *ScoringService) Validate(ctx context.Context, lang domain.Language, code string, testCases []domain.TestCase) (*domain.ValidationOutcome, error) {
	outcome := &domain.ValidationOutcome{TotalCount: len(testCases)}
	if len(testCases) == 0 {
		return outcome, nil
	}

	for _, tc := range testCases {
		run, err := s.runner.RunOnce(ctx, lang, code, tc.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to run test case: %w", err)
		}

		if run.CompileError != "" {
			// The same source fails to compile for every case; stop here
			outcome.PassedCount = 0
			outcome.CompileError = run.CompileError
			outcome.FirstFailure = nil
			outcome.ScorePercent = 0
			return outcome, nil
		}

		actual := trimTrailing(run.Output)
		expected := trimTrailing(tc.Expected)
		if !run.TimedOut && run.RuntimeError == "" && actual == expected {
			outcome.PassedCount++
			continue
		}

		if outcome.FirstFailure == nil {
			failure := &domain.FailedCase{
				Input:        tc.Input,
				Expected:     tc.Expected,
				ActualOutput: run.Output,
				Description:  tc.Description,
			}
			if run.RuntimeError != "" {
				failure.ActualOutput = run.RuntimeError
			}
			if run.TimedOut {
				failure.ActualOutput = "execution timed out"
			}
			outcome.FirstFailure = failure
		}
	}

	outcome.ScorePercent = outcome.PassedCount * 100 / outcome.TotalCount
	s.logger.Debug("Validated submission",
		"language", lang,
		"passed", outcome.PassedCount,
		"total", outcome.TotalCount)
	return outcome, nil
}

// FinalScore adds a linear time bonus to the correctness score. No bonus
// without at least one passing test: a zero-pass submission nets exactly
// zero regardless of speed.
func (s *ScoringService) FinalScore(outcome *domain.ValidationOutcome, elapsedSeconds, timeLimitSeconds float64) int {
	if outcome == nil || outcome.PassedCount == 0 {
		return 0
	}

	score := outcome.ScorePercent
	if timeLimitSeconds <= 0 {
		return score
	}

	remaining := timeLimitSeconds - elapsedSeconds
	if remaining < 0 {
		remaining = 0
	}
	bonus := int(float64(s.maxBonus) * remaining / timeLimitSeconds)
	return score + bonus
}

// trimTrailing drops trailing whitespace before comparison, per line and
// at the end, so platform newline differences never fail a test
func trimTrailing(out string) string {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
}
