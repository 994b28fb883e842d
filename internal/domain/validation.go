package domain

// FailedCase describes the first failing test case of a submission
type FailedCase struct {
	Input        string `json:"input"`
	Expected     string `json:"expected"`
	ActualOutput string `json:"actualOutput"`
	Description  string `json:"description,omitempty"`
}

// ValidationOutcome is the correctness report for one submission attempt.
// Produced fresh per attempt, never mutated afterwards.
type ValidationOutcome struct {
	PassedCount  int         `json:"passedCount"`
	TotalCount   int         `json:"totalCount"`
	ScorePercent int         `json:"scorePercent"`
	FirstFailure *FailedCase `json:"firstFailure,omitempty"`
	CompileError string      `json:"compileError,omitempty"`
}

// AllPassed reports whether every test case passed
func (v *ValidationOutcome) AllPassed() bool {
	return v.TotalCount > 0 && v.PassedCount == v.TotalCount
}
