package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/bughunt-2025.net/internal/config"
	"gitlab.com/bughunt-2025.net/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

// runnerFunc adapts a function to the CodeRunner interface
type runnerFunc func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error)

func (f runnerFunc) RunOnce(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
	return f(ctx, lang, code, stdin)
}

func newService(runner CodeRunner) *ScoringService {
	return NewScoringService(runner, &config.MatchCfg{MaxTimeBonus: 50}, nopLogger{})
}

// sumRunner simulates a sum-of-1..n program. The buggy variant computes
// n*(n-1)/2 instead of n*(n+1)/2.
func sumRunner(fixed bool) CodeRunner {
	table := map[string]struct{ right, wrong string }{
		"5":  {"15", "10"},
		"10": {"55", "45"},
		"1":  {"1", "0"},
	}
	return runnerFunc(func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
		row := table[stdin]
		out := row.wrong
		if fixed {
			out = row.right
		}
		return &domain.ExecOutcome{Success: true, Output: out + "\n"}, nil
	})
}

var sumCases = []domain.TestCase{
	{Input: "5", Expected: "15", Description: "sum of 1..5"},
	{Input: "10", Expected: "55", Description: "sum of 1..10"},
	{Input: "1", Expected: "1", Description: "single term"},
}

func TestValidate_AllPass(t *testing.T) {
	svc := newService(sumRunner(true))

	outcome, err := svc.Validate(context.Background(), domain.LanguagePython, "fixed", sumCases)
	require.NoError(t, err)
	require.Equal(t, 3, outcome.PassedCount)
	require.Equal(t, 3, outcome.TotalCount)
	require.Equal(t, 100, outcome.ScorePercent)
	require.True(t, outcome.AllPassed())
	require.Nil(t, outcome.FirstFailure)
}

func TestValidate_AllFailRecordsFirstFailure(t *testing.T) {
	svc := newService(sumRunner(false))

	outcome, err := svc.Validate(context.Background(), domain.LanguagePython, "buggy", sumCases)
	require.NoError(t, err)
	require.Equal(t, 0, outcome.PassedCount)
	require.Equal(t, 0, outcome.ScorePercent)
	require.False(t, outcome.AllPassed())
	require.NotNil(t, outcome.FirstFailure)
	require.Equal(t, "5", outcome.FirstFailure.Input)
	require.Equal(t, "15", outcome.FirstFailure.Expected)
	require.Equal(t, "10\n", outcome.FirstFailure.ActualOutput)
}

func TestValidate_PartialScoreFloors(t *testing.T) {
	// Passes only the first of the three cases: 1*100/3 floors to 33
	runner := runnerFunc(func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
		if stdin == "5" {
			return &domain.ExecOutcome{Success: true, Output: "15"}, nil
		}
		return &domain.ExecOutcome{Success: true, Output: "wrong"}, nil
	})
	svc := newService(runner)

	outcome, err := svc.Validate(context.Background(), domain.LanguagePython, "half", sumCases)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.PassedCount)
	require.Equal(t, 33, outcome.ScorePercent)
}

func TestValidate_CompileErrorShortCircuits(t *testing.T) {
	calls := 0
	runner := runnerFunc(func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
		calls++
		return &domain.ExecOutcome{CompileError: "main.java:4: error: ';' expected"}, nil
	})
	svc := newService(runner)

	outcome, err := svc.Validate(context.Background(), domain.LanguageJava, "broken", sumCases)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, 0, outcome.PassedCount)
	require.Contains(t, outcome.CompileError, "';' expected")
	require.Nil(t, outcome.FirstFailure)
}

func TestValidate_RuntimeErrorAndTimeout(t *testing.T) {
	runner := runnerFunc(func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
		switch stdin {
		case "5":
			return &domain.ExecOutcome{RuntimeError: "ZeroDivisionError: division by zero"}, nil
		default:
			return &domain.ExecOutcome{TimedOut: true}, nil
		}
	})
	svc := newService(runner)

	outcome, err := svc.Validate(context.Background(), domain.LanguagePython, "crashy", sumCases)
	require.NoError(t, err)
	require.Equal(t, 0, outcome.PassedCount)
	require.Equal(t, "ZeroDivisionError: division by zero", outcome.FirstFailure.ActualOutput)
}

func TestValidate_TimeoutReportedAsFailure(t *testing.T) {
	runner := runnerFunc(func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
		return &domain.ExecOutcome{TimedOut: true}, nil
	})
	svc := newService(runner)

	outcome, err := svc.Validate(context.Background(), domain.LanguagePython, "loopy", sumCases[:1])
	require.NoError(t, err)
	require.Equal(t, "execution timed out", outcome.FirstFailure.ActualOutput)
}

func TestValidate_TrailingWhitespaceIgnored(t *testing.T) {
	runner := runnerFunc(func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
		return &domain.ExecOutcome{Success: true, Output: "15 \r\n"}, nil
	})
	svc := newService(runner)

	outcome, err := svc.Validate(context.Background(), domain.LanguagePython, "ok", sumCases[:1])
	require.NoError(t, err)
	require.Equal(t, 1, outcome.PassedCount)
}

func TestValidate_TransportFaultSurfaces(t *testing.T) {
	runner := runnerFunc(func(ctx context.Context, lang domain.Language, code, stdin string) (*domain.ExecOutcome, error) {
		return nil, errors.New("gateway unreachable")
	})
	svc := newService(runner)

	_, err := svc.Validate(context.Background(), domain.LanguagePython, "any", sumCases)
	require.Error(t, err)
	require.Contains(t, err.Error(), "gateway unreachable")
}

func TestValidate_NoTestCases(t *testing.T) {
	svc := newService(sumRunner(true))

	outcome, err := svc.Validate(context.Background(), domain.LanguagePython, "any", nil)
	require.NoError(t, err)
	require.Equal(t, 0, outcome.TotalCount)
	require.False(t, outcome.AllPassed())
}

func TestFinalScore(t *testing.T) {
	svc := newService(sumRunner(true))

	full := &domain.ValidationOutcome{PassedCount: 3, TotalCount: 3, ScorePercent: 100}
	half := &domain.ValidationOutcome{PassedCount: 1, TotalCount: 2, ScorePercent: 50}
	zero := &domain.ValidationOutcome{PassedCount: 0, TotalCount: 3, ScorePercent: 0}

	tests := []struct {
		name    string
		outcome *domain.ValidationOutcome
		elapsed float64
		limit   float64
		want    int
	}{
		{"instant solve gets full bonus", full, 0, 600, 150},
		{"90 percent remaining", full, 60, 600, 145},
		{"half remaining", full, 300, 600, 125},
		{"at the deadline no bonus", full, 600, 600, 100},
		{"past the deadline clamps to zero bonus", full, 700, 600, 100},
		{"partial score gets proportional bonus", half, 300, 600, 75},
		{"zero passes score exactly zero even when fast", zero, 1, 600, 0},
		{"nil outcome scores zero", nil, 0, 600, 0},
		{"no limit means no bonus", full, 10, 0, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, svc.FinalScore(tc.outcome, tc.elapsed, tc.limit))
		})
	}
}

func TestTrimTrailing(t *testing.T) {
	require.Equal(t, "a\nb", trimTrailing("a  \nb\t\r\n\n"))
	require.Equal(t, "", trimTrailing(" \n \n"))
	require.Equal(t, "x", trimTrailing("x"))
}
