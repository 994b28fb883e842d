package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus represents the lifecycle state of a queued execution
type ExecutionStatus string

const (
	ExecutionStatusQueued    ExecutionStatus = "QUEUED"
	ExecutionStatusRunning   ExecutionStatus = "RUNNING"
	ExecutionStatusCompleted ExecutionStatus = "COMPLETED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
)

// Terminal reports whether the status can no longer change
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// ExecutionRequest represents a request to run player code against the
// remote execution service. Immutable once enqueued.
type ExecutionRequest struct {
	ID         uuid.UUID `json:"executionId"`
	MatchID    string    `json:"matchId"`
	PlayerID   string    `json:"playerId"`
	Language   Language  `json:"language"`
	SourceCode string    `json:"sourceCode"`
	Stdin      string    `json:"stdin"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// NewExecutionRequest creates a new execution request
func NewExecutionRequest(matchID, playerID string, lang Language, code, stdin string) *ExecutionRequest {
	return &ExecutionRequest{
		ID:         uuid.New(),
		MatchID:    matchID,
		PlayerID:   playerID,
		Language:   lang,
		SourceCode: code,
		Stdin:      stdin,
		EnqueuedAt: time.Now(),
	}
}

// ExecOutcome is the normalized result of one call to the remote service.
// Compile errors, runtime errors and timeouts are values here, not Go
// errors; only transport problems surface as errors from the gateway.
type ExecOutcome struct {
	Success         bool   `json:"success"`
	Output          string `json:"output"`
	CompileError    string `json:"compileError"`
	RuntimeError    string `json:"runtimeError"`
	TimedOut        bool   `json:"timedOut"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

// ExecutionResult tracks a queued execution from acceptance to expiry
type ExecutionResult struct {
	RequestID       uuid.UUID       `json:"executionId"`
	Status          ExecutionStatus `json:"status"`
	Stdout          string          `json:"stdout"`
	CompileError    string          `json:"compileError"`
	RuntimeError    string          `json:"runtimeError"`
	TimedOut        bool            `json:"timedOut"`
	ExecutionTimeMs int64           `json:"executionTimeMs"`
	Error           string          `json:"error,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
}
