package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smartmarks/smartmarks-api/internal/auth"
	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/repository"
)

// APIKeyHandler handles API key management endpoints (hosted mode).
type APIKeyHandler struct {
	keys repository.APIKeyRepository
}

// NewAPIKeyHandler creates a new API key handler.
func NewAPIKeyHandler(keys repository.APIKeyRepository) *APIKeyHandler {
	return &APIKeyHandler{keys: keys}
}

// APIKeyInfo is the client-safe view of a stored key. The key itself is
// only returned once, at creation.
type APIKeyInfo struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// ListKeysOutput represents the key list response.
type ListKeysOutput struct {
	Body struct {
		Keys []APIKeyInfo `json:"keys"`
	}
}

// ListKeys returns the caller's API keys, including revoked ones.
func (h *APIKeyHandler) ListKeys(ctx context.Context, input *struct{}) (*ListKeysOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	stored, err := h.keys.GetByUserID(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list keys")
	}

	out := &ListKeysOutput{}
	out.Body.Keys = make([]APIKeyInfo, 0, len(stored))
	for _, k := range stored {
		out.Body.Keys = append(out.Body.Keys, APIKeyInfo{
			ID:         k.ID,
			Name:       k.Name,
			KeyPrefix:  k.KeyPrefix,
			CreatedAt:  k.CreatedAt,
			LastUsedAt: k.LastUsedAt,
			RevokedAt:  k.RevokedAt,
		})
	}
	return out, nil
}

// CreateKeyInput represents a key creation request.
type CreateKeyInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"100" doc:"Display name for the key"`
	}
}

// CreateKeyOutput represents a key creation response. Key carries the
// full secret and is shown exactly once.
type CreateKeyOutput struct {
	Body struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Key       string    `json:"key" doc:"Full API key; store it now, it is not retrievable later"`
		KeyPrefix string    `json:"key_prefix"`
		CreatedAt time.Time `json:"created_at"`
	}
}

// CreateKey issues a new API key for the caller.
func (h *APIKeyHandler) CreateKey(ctx context.Context, input *CreateKeyInput) (*CreateKeyOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	key, prefix, hash, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to generate key")
	}

	stored := &models.APIKey{
		UserID:    userID,
		Name:      input.Body.Name,
		KeyHash:   hash,
		KeyPrefix: prefix,
	}
	if err := h.keys.Create(ctx, stored); err != nil {
		return nil, huma.Error500InternalServerError("failed to store key")
	}

	out := &CreateKeyOutput{}
	out.Body.ID = stored.ID
	out.Body.Name = stored.Name
	out.Body.Key = key
	out.Body.KeyPrefix = stored.KeyPrefix
	out.Body.CreatedAt = stored.CreatedAt
	return out, nil
}

// RevokeKeyInput represents a key revocation request.
type RevokeKeyInput struct {
	ID string `path:"id" doc:"API key ID"`
}

// RevokeKeyOutput represents a key revocation response.
type RevokeKeyOutput struct {
	Body struct {
		Revoked bool `json:"revoked"`
	}
}

// RevokeKey revokes one of the caller's API keys. Revocation is scoped to
// the caller's own keys; foreign IDs read as missing.
func (h *APIKeyHandler) RevokeKey(ctx context.Context, input *RevokeKeyInput) (*RevokeKeyOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	stored, err := h.keys.GetByUserID(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to look up key")
	}

	var owned bool
	for _, k := range stored {
		if k.ID == input.ID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, huma.Error404NotFound("key not found")
	}

	if err := h.keys.Revoke(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("failed to revoke key")
	}

	out := &RevokeKeyOutput{}
	out.Body.Revoked = true
	return out, nil
}
