// Package mw contains HTTP middleware for the smartmarks-api.
package mw

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/auth"
	"github.com/smartmarks/smartmarks-api/internal/repository"
)

// selfHostedUserID owns all data in self-hosted mode, where the single
// deployment key is configured by hash and no identity provider exists.
const selfHostedUserID = "local"

// AuthConfig wires the token sources the Auth middleware checks.
type AuthConfig struct {
	// Verifier validates identity-provider session JWTs. Nil in
	// self-hosted mode, where JWT auth is rejected.
	Verifier *auth.Verifier
	// Keys resolves locally-issued API keys (sb_ prefix) by hash.
	Keys repository.APIKeyRepository
	// SelfHostedKeyHash, when set, accepts the matching API key as the
	// self-hosted deployment key without a database lookup.
	SelfHostedKeyHash string
}

// Auth returns an authentication middleware that supports both
// identity-provider JWTs and API keys.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			token := authHeader
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}

			var ctx context.Context
			var err error

			if auth.IsAPIKey(token) {
				ctx, err = validateAPIKey(r.Context(), cfg, token)
			} else {
				ctx, err = validateSessionToken(r.Context(), cfg.Verifier, token)
			}

			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateSessionToken validates an identity-provider JWT and stores its
// claims on the context.
func validateSessionToken(ctx context.Context, verifier *auth.Verifier, tokenString string) (context.Context, error) {
	if verifier == nil {
		return nil, auth.ErrInvalidToken
	}
	claims, err := verifier.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	ctx = auth.WithUserID(ctx, claims.UserID)
	return context.WithValue(ctx, auth.ClaimsKey, claims), nil
}

// validateAPIKey resolves an API key to its owning user. The self-hosted
// deployment key is checked first; everything else goes through the store.
func validateAPIKey(ctx context.Context, cfg AuthConfig, apiKey string) (context.Context, error) {
	hash := auth.HashAPIKey(apiKey)

	if cfg.SelfHostedKeyHash != "" && hash == cfg.SelfHostedKeyHash {
		return auth.WithUserID(ctx, selfHostedUserID), nil
	}

	if cfg.Keys == nil {
		return nil, auth.ErrInvalidToken
	}
	key, err := cfg.Keys.GetByKeyHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, auth.ErrInvalidToken
	}

	// Best-effort; a failed write must not block the request.
	_ = cfg.Keys.UpdateLastUsed(ctx, key.ID, time.Now())

	return auth.WithUserID(ctx, key.UserID), nil
}
