package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// APIKeyPrefix marks bearer tokens as locally-issued API keys rather than
// identity-provider JWTs.
const APIKeyPrefix = "sb_"

// GenerateAPIKey returns a new random API key, its display prefix, and
// its hash. The full key is shown once at creation; only the hash is
// stored.
func GenerateAPIKey() (key, displayPrefix, keyHash string, err error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate key: %w", err)
	}

	key = APIKeyPrefix + base64.RawURLEncoding.EncodeToString(keyBytes)
	displayPrefix = key[:11] + "..."
	keyHash = HashAPIKey(key)
	return key, displayPrefix, keyHash, nil
}

// HashAPIKey returns the hex-encoded SHA-256 of a key, the form stored
// and compared server-side.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// IsAPIKey reports whether a bearer token looks like a local API key.
func IsAPIKey(token string) bool {
	return strings.HasPrefix(token, APIKeyPrefix)
}
