package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
)

type contextKey string

// PlayerIDKey carries the authenticated player identity through the
// request context
const PlayerIDKey contextKey = "playerId"

type MiddlewareProvider struct {
	jwtService primary.JWTService
}

func New(jwtService primary.JWTService) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtService: jwtService,
	}
}

// JWTMiddleware verifies the bearer token and stashes the player identity
// in the request context. Token issuance is the auth collaborator's job.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		valid, err := m.jwtService.VerifyTokenHMAC(r.Context(), tokenString, "HS256")
		if err != nil || !valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		payload, err := m.jwtService.DecodeTokenPayload(r.Context(), tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerIDKey, payload.PlayerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
