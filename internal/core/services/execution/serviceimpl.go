package execution

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	"gitlab.com/bughunt-2025.net/internal/config"
	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/ports/secondary"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

var _ IExecutionService = (*ExecutionService)(nil)

const janitorInterval = 30 * time.Second

// resultEntry pairs a result snapshot with its storage time for TTL
// eviction. The pointer is swapped whole on every transition so readers
// never observe a half-written result.
type resultEntry struct {
	result   *domain.ExecutionResult
	storedAt time.Time
}

// ExecutionService implements the IExecutionService interface
type ExecutionService struct {
	cfg     *config.ExecutionCfg
	gateway secondary.CodeGateway
	breaker *CircuitBreaker
	logger  primary.Logger

	backlog chan *domain.ExecutionRequest
	results *xsync.MapOf[string, *resultEntry]

	activeCount    atomic.Int64
	completedCount atomic.Int64
	failedCount    atomic.Int64

	group   *errgroup.Group
	cancel  context.CancelFunc
	running atomic.Bool
}

// NewExecutionService creates a new execution queue around the gateway
func NewExecutionService(cfg *config.ExecutionCfg, gateway secondary.CodeGateway, logger primary.Logger) *ExecutionService {
	return &ExecutionService{
		cfg:     cfg,
		gateway: gateway,
		breaker: NewCircuitBreaker(cfg.FailureThreshold, cfg.RecoveryTimeout, logger),
		logger:  logger,
		backlog: make(chan *domain.ExecutionRequest, cfg.BacklogCapacity),
		results: xsync.NewMapOf[string, *resultEntry](),
	}
}

// Start launches the fixed worker pool and the result janitor
func (s *ExecutionService) Start(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}

	workerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	group, groupCtx := errgroup.WithContext(workerCtx)
	s.group = group
	for i := 0; i < s.cfg.WorkerCount; i++ {
		group.Go(func() error {
			s.workerLoop(groupCtx)
			return nil
		})
	}
	group.Go(func() error {
		s.janitorLoop(groupCtx)
		return nil
	})

	s.logger.Info("Execution queue started",
		"workers", s.cfg.WorkerCount,
		"backlogCapacity", s.cfg.BacklogCapacity)
}

// Stop signals the workers and waits for them to exit
func (s *ExecutionService) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()
	err := s.group.Wait()
	s.logger.Info("Execution queue stopped")
	return err
}

// Submit enqueues a request, failing fast when the backlog is full so
// backpressure reaches the caller instead of being absorbed
func (s *ExecutionService) Submit(ctx context.Context, req *domain.ExecutionRequest) (int, error) {
	if !s.running.Load() {
		return 0, errs.ErrQueueStopped
	}

	// The queued entry must exist before the request becomes visible to a
	// worker, otherwise a fast worker's terminal store could be overwritten
	// by this one and the result would never reach a terminal state
	key := req.ID.String()
	s.results.Store(key, &resultEntry{
		result: &domain.ExecutionResult{
			RequestID: req.ID,
			Status:    domain.ExecutionStatusQueued,
		},
		storedAt: time.Now(),
	})

	select {
	case s.backlog <- req:
	default:
		s.results.Delete(key)
		s.logger.Warn("Execution backlog full, rejecting request",
			"executionId", req.ID,
			"backlog", len(s.backlog))
		return 0, errs.ErrQueueFull
	}

	position := len(s.backlog)
	s.logger.Info("Execution queued",
		"executionId", req.ID,
		"language", req.Language,
		"queuePosition", position)
	return position, nil
}

// Poll returns a snapshot of the result for a request
func (s *ExecutionService) Poll(requestID uuid.UUID) (*domain.ExecutionResult, bool) {
	entry, ok := s.results.Load(requestID.String())
	if !ok {
		return nil, false
	}
	snapshot := *entry.result
	return &snapshot, true
}

// RunOnce executes code synchronously through the breaker-guarded gateway
func (s *ExecutionService) RunOnce(ctx context.Context, lang domain.Language, code string, stdin string) (*domain.ExecOutcome, error) {
	return s.breaker.Call(ctx, func(ctx context.Context) (*domain.ExecOutcome, error) {
		return s.gateway.Execute(ctx, lang, code, stdin)
	})
}

// Status returns current queue statistics
func (s *ExecutionService) Status() QueueStatus {
	return QueueStatus{
		PendingCount:   len(s.backlog),
		ActiveCount:    int(s.activeCount.Load()),
		CompletedCount: s.completedCount.Load(),
		FailedCount:    s.failedCount.Load(),
		CircuitState:   s.breaker.State(),
	}
}

// workerLoop pulls requests off the backlog; each request is owned by
// exactly one worker from pickup to terminal state
func (s *ExecutionService) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.backlog:
			s.activeCount.Add(1)
			s.process(ctx, req)
			s.activeCount.Add(-1)
		}
	}
}

func (s *ExecutionService) process(ctx context.Context, req *domain.ExecutionRequest) {
	s.store(req.ID, &domain.ExecutionResult{
		RequestID: req.ID,
		Status:    domain.ExecutionStatusRunning,
	})

	outcome, err := s.executeWithRetry(ctx, req)
	if err != nil {
		now := time.Now()
		s.store(req.ID, &domain.ExecutionResult{
			RequestID:   req.ID,
			Status:      domain.ExecutionStatusFailed,
			Error:       err.Error(),
			CompletedAt: &now,
		})
		s.failedCount.Add(1)
		s.logger.Error("Execution failed", "executionId", req.ID, "error", err)
		return
	}

	// Program-level failures are completed results; the player needs the
	// compiler or runtime output to debug
	now := time.Now()
	s.store(req.ID, &domain.ExecutionResult{
		RequestID:       req.ID,
		Status:          domain.ExecutionStatusCompleted,
		Stdout:          outcome.Output,
		CompileError:    outcome.CompileError,
		RuntimeError:    outcome.RuntimeError,
		TimedOut:        outcome.TimedOut,
		ExecutionTimeMs: outcome.ExecutionTimeMs,
		CompletedAt:     &now,
	})
	s.completedCount.Add(1)
	s.logger.Info("Execution completed",
		"executionId", req.ID,
		"success", outcome.Success)
}

// executeWithRetry retries transport faults with exponential backoff.
// A breaker rejection is terminal immediately; retrying would only
// hammer a dependency already known to be down.
func (s *ExecutionService) executeWithRetry(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecOutcome, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.cfg.RetryBaseBackoff << (attempt - 1)
			s.logger.Warn("Retrying execution",
				"executionId", req.ID,
				"attempt", attempt,
				"backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		outcome, err := s.breaker.Call(ctx, func(ctx context.Context) (*domain.ExecOutcome, error) {
			return s.gateway.Execute(ctx, req.Language, req.SourceCode, req.Stdin)
		})
		if err == nil {
			return outcome, nil
		}
		if errors.Is(err, errs.ErrCircuitOpen) {
			return nil, err
		}
		// A canceled caller is not a service fault; stop retrying
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *ExecutionService) store(requestID uuid.UUID, result *domain.ExecutionResult) {
	s.results.Store(requestID.String(), &resultEntry{
		result:   result,
		storedAt: time.Now(),
	})
}

// janitorLoop purges terminal results past their TTL to bound memory
func (s *ExecutionService) janitorLoop(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purgeExpired()
		}
	}
}

func (s *ExecutionService) purgeExpired() {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	purged := 0
	s.results.Range(func(key string, entry *resultEntry) bool {
		if entry.result.Status.Terminal() && entry.storedAt.Before(cutoff) {
			s.results.Delete(key)
			purged++
		}
		return true
	})
	if purged > 0 {
		s.logger.Info("Purged expired execution results", "count", purged)
	}
}
