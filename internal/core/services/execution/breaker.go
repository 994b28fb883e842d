package execution

import (
	"context"
	"sync"
	"time"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

// CircuitState represents the breaker position
type CircuitState string

const (
	CircuitClosed   CircuitState = "CLOSED"
	CircuitOpen     CircuitState = "OPEN"
	CircuitHalfOpen CircuitState = "HALF_OPEN"
)

// CircuitBreaker sheds load on the remote execution service after
// consecutive transport faults. Program-level outcomes (compile errors,
// runtime errors, in-sandbox timeouts) prove the service is reachable and
// reset the failure counter instead of tripping the breaker.
type CircuitBreaker struct {
	mu                  sync.Mutex
	failureThreshold    int
	recoveryTimeout     time.Duration
	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
	probeInFlight       bool
	logger              primary.Logger
}

// NewCircuitBreaker creates a breaker in the closed state
func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration, logger primary.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		state:            CircuitClosed,
		logger:           logger,
	}
}

// Call runs fn through the breaker. A non-nil error from fn is a
// transport fault and counts toward opening; any outcome value counts as
// contact with a functioning service.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(ctx context.Context) (*domain.ExecOutcome, error)) (*domain.ExecOutcome, error) {
	if err := cb.acquire(); err != nil {
		return nil, err
	}

	outcome, err := fn(ctx)
	if err != nil {
		// A call that died with its caller's context proves nothing about
		// the service; release the probe gate without counting a fault
		if ctx.Err() != nil {
			cb.recordAborted()
			return nil, err
		}
		cb.recordFailure()
		return nil, err
	}

	cb.recordSuccess()
	return outcome, nil
}

// State returns the current breaker position
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// acquire decides whether one call may pass through
func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return nil
	case CircuitOpen:
		if time.Since(cb.openedAt) < cb.recoveryTimeout {
			return errs.ErrCircuitOpen
		}
		// Cooldown elapsed, allow exactly one probe
		cb.state = CircuitHalfOpen
		cb.probeInFlight = true
		cb.logger.Info("Circuit breaker entering half-open state")
		return nil
	case CircuitHalfOpen:
		if cb.probeInFlight {
			return errs.ErrCircuitOpen
		}
		cb.probeInFlight = true
		return nil
	}
	return nil
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures = 0
	if cb.state == CircuitHalfOpen {
		cb.logger.Info("Circuit breaker probe succeeded, closing breaker")
		cb.state = CircuitClosed
	}
	cb.probeInFlight = false
}

// recordAborted ends a call without judging the service. A half-open
// probe stays half-open so the next caller may probe again.
func (cb *CircuitBreaker) recordAborted() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probeInFlight = false
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures++

	if cb.state == CircuitHalfOpen {
		cb.logger.Warn("Circuit breaker probe failed, reopening breaker")
		cb.state = CircuitOpen
		cb.openedAt = time.Now()
		cb.probeInFlight = false
		return
	}

	if cb.consecutiveFailures >= cb.failureThreshold && cb.state != CircuitOpen {
		cb.logger.Error("Circuit breaker opened",
			"consecutiveFailures", cb.consecutiveFailures)
		cb.state = CircuitOpen
		cb.openedAt = time.Now()
	}
}
