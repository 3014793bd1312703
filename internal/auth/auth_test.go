package auth

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateAPIKey(t *testing.T) {
	key, prefix, hash, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(key, APIKeyPrefix) {
		t.Errorf("key = %q, missing prefix", key)
	}
	if !strings.HasSuffix(prefix, "...") || !strings.HasPrefix(key, strings.TrimSuffix(prefix, "...")) {
		t.Errorf("display prefix %q does not match key", prefix)
	}
	if hash != HashAPIKey(key) {
		t.Error("returned hash does not match HashAPIKey")
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(hash))
	}
}

func TestGenerateAPIKeyUnique(t *testing.T) {
	a, _, _, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	b, _, _, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two generated keys are identical")
	}
}

func TestIsAPIKey(t *testing.T) {
	if !IsAPIKey("sb_abc123") {
		t.Error("sb_ token not recognized")
	}
	if IsAPIKey("eyJhbGciOiJSUzI1NiJ9.x.y") {
		t.Error("JWT recognized as API key")
	}
}

func TestVerifierRejectsGarbageToken(t *testing.T) {
	v := NewVerifier("https://issuer.example.com/")

	if _, err := v.VerifyToken("not-a-jwt"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestUserIDContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user_123")
	if got := UserIDFromContext(ctx); got != "user_123" {
		t.Errorf("user id = %q", got)
	}
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context user id = %q", got)
	}
}
