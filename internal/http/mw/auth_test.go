package mw

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/auth"
	"github.com/smartmarks/smartmarks-api/internal/database/migrations"
	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/repository"
	_ "github.com/tursodatabase/go-libsql"
)

func setupKeyRepo(t *testing.T) repository.APIKeyRepository {
	t.Helper()

	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := migrations.Run(db, nil); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return repository.NewRepositories(db).APIKey
}

// echoUserID responds with the authenticated user ID from context.
func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(auth.UserIDFromContext(r.Context())))
	})
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(AuthConfig{})(echoUserID())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(AuthConfig{})(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAuthAcceptsStoredAPIKey(t *testing.T) {
	keys := setupKeyRepo(t)

	key, prefix, hash, err := auth.GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	if err := keys.Create(context.Background(), &models.APIKey{
		UserID:    "user_key",
		Name:      "test",
		KeyHash:   hash,
		KeyPrefix: prefix,
	}); err != nil {
		t.Fatal(err)
	}

	handler := Auth(AuthConfig{Keys: keys})(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer "+key)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "user_key" {
		t.Errorf("user id = %q", rec.Body.String())
	}
}

func TestAuthRejectsRevokedAPIKey(t *testing.T) {
	keys := setupKeyRepo(t)
	ctx := context.Background()

	key, prefix, hash, err := auth.GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	stored := &models.APIKey{UserID: "user_key", Name: "test", KeyHash: hash, KeyPrefix: prefix}
	if err := keys.Create(ctx, stored); err != nil {
		t.Fatal(err)
	}
	if err := keys.Revoke(ctx, stored.ID); err != nil {
		t.Fatal(err)
	}

	handler := Auth(AuthConfig{Keys: keys})(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer "+key)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAuthAcceptsSelfHostedKey(t *testing.T) {
	key, _, hash, err := auth.GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}

	handler := Auth(AuthConfig{SelfHostedKeyHash: hash})(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer "+key)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != selfHostedUserID {
		t.Errorf("user id = %q", rec.Body.String())
	}
}
