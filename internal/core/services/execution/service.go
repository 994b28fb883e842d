package execution

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/bughunt-2025.net/internal/domain"
)

// QueueStatus reports current queue statistics
type QueueStatus struct {
	PendingCount   int          `json:"pendingCount"`
	ActiveCount    int          `json:"activeCount"`
	CompletedCount int64        `json:"completedCount"`
	FailedCount    int64        `json:"failedCount"`
	CircuitState   CircuitState `json:"circuitState"`
}

// IExecutionService dispatches player code to the remote execution
// service with bounded concurrency and fault tolerance
type IExecutionService interface {
	// Submit enqueues a request and returns its queue position without
	// waiting for completion
	Submit(ctx context.Context, req *domain.ExecutionRequest) (int, error)

	// Poll retrieves the current result for a request; safe to call
	// repeatedly, returns false once the result has expired or never existed
	Poll(requestID uuid.UUID) (*domain.ExecutionResult, bool)

	// RunOnce executes code synchronously through the circuit breaker,
	// bypassing the backlog. Used by submission validation.
	RunOnce(ctx context.Context, lang domain.Language, code string, stdin string) (*domain.ExecOutcome, error)

	// Status returns queue and breaker counters
	Status() QueueStatus

	// Start launches the worker pool and result janitor
	Start(ctx context.Context)

	// Stop drains the workers and waits for them to exit
	Stop() error
}
