package repository

import (
	"context"
	"testing"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

func createTestAPIKey(t *testing.T, repos *Repositories, userID, hash string) *models.APIKey {
	t.Helper()

	key := &models.APIKey{
		UserID:    userID,
		Name:      "Test Key",
		KeyHash:   hash,
		KeyPrefix: "sb_test",
	}
	if err := repos.APIKey.Create(context.Background(), key); err != nil {
		t.Fatalf("failed to create test api key: %v", err)
	}
	return key
}

func TestAPIKeyGetByKeyHash(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	createTestAPIKey(t, repos, "user_1", "hash-abc")

	got, err := repos.APIKey.GetByKeyHash(ctx, "hash-abc")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.UserID != "user_1" {
		t.Errorf("got %+v", got)
	}

	missing, err := repos.APIKey.GetByKeyHash(ctx, "hash-zzz")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("unknown hash matched")
	}
}

func TestAPIKeyRevokedKeyDoesNotAuthenticate(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	key := createTestAPIKey(t, repos, "user_1", "hash-revoked")

	if err := repos.APIKey.Revoke(ctx, key.ID); err != nil {
		t.Fatal(err)
	}

	got, err := repos.APIKey.GetByKeyHash(ctx, "hash-revoked")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("revoked key still resolves by hash")
	}

	keys, err := repos.APIKey.GetByUserID(ctx, "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0].RevokedAt == nil {
		t.Errorf("keys = %+v", keys)
	}
}

func TestAPIKeyUpdateLastUsed(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	key := createTestAPIKey(t, repos, "user_1", "hash-used")

	used := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	if err := repos.APIKey.UpdateLastUsed(ctx, key.ID, used); err != nil {
		t.Fatal(err)
	}

	got, _ := repos.APIKey.GetByKeyHash(ctx, "hash-used")
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(used) {
		t.Errorf("last_used_at = %v", got.LastUsedAt)
	}
}
