package primary

import (
	"context"

	"gitlab.com/bughunt-2025.net/internal/domain"
)

// JWTService verifies and decodes bearer tokens issued by the external
// auth collaborator. Token issuance lives outside this service.
type JWTService interface {
	VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error)
	DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error)
}
