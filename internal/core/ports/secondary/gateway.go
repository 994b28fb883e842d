package secondary

import (
	"context"

	"gitlab.com/bughunt-2025.net/internal/domain"
)

// CodeGateway adapts the remote compile-and-run service. Program-level
// failures (compile error, runtime error, timeout) come back inside the
// outcome; a non-nil error always means a transport fault.
type CodeGateway interface {
	Execute(ctx context.Context, lang domain.Language, code string, stdin string) (*domain.ExecOutcome, error)
}
