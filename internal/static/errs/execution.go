package errs

import "errors"

var (
	// ErrQueueFull means the execution backlog is at capacity; the caller
	// should back off briefly and retry
	ErrQueueFull = errors.New("execution queue is full, try again shortly")

	// ErrCircuitOpen means the remote execution service is degraded and
	// calls are being shed; retry after a longer delay
	ErrCircuitOpen = errors.New("execution service temporarily unavailable")

	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrExecutionNotFound   = errors.New("execution not found or expired")
	ErrQueueStopped        = errors.New("execution queue is not running")
)
