// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    int
	BaseURL string

	// Database
	DatabaseURL string

	// Identity provider (Clerk-compatible: JWT issuer + svix-signed webhooks)
	IdentityIssuerURL     string // e.g. "https://xxx.clerk.accounts.dev"
	IdentityWebhookSecret string // svix signing secret for identity webhooks

	// LLM classification
	OpenAIKey   string // empty disables AI classification (keyword fallback only)
	OpenAIModel string

	// Scraping
	FetchTimeout time.Duration // per-attempt timeout for page fetches

	// Metadata cache (optional)
	RedisURL     string
	CacheTTL     time.Duration

	// Object storage for the image proxy cache (optional, S3-compatible)
	StorageEnabled   bool
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string

	// CORS
	CORSOrigins []string

	// Deployment mode
	DeploymentMode string // "hosted" or "selfhosted"

	// Self-hosted: pre-hashed API key (sha256 hex) accepted as Bearer sb_xxx
	APIKeyHash string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseURL: getEnv("DATABASE_URL", "file:smartmarks.db?_journal=WAL&_timeout=5000"),

		IdentityIssuerURL:     getEnv("IDENTITY_ISSUER_URL", ""),
		IdentityWebhookSecret: getEnv("IDENTITY_WEBHOOK_SECRET", ""),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 12*time.Second),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvDuration("METADATA_CACHE_TTL", 6*time.Hour),

		StorageEndpoint:  getEnv("AWS_ENDPOINT_URL_S3", ""),
		StorageAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		StorageSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		StorageBucket:    getEnvWithFallback("BUCKET_NAME", "STORAGE_BUCKET", ""),
		StorageRegion:    getEnv("AWS_REGION", "auto"),

		CORSOrigins:    getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		DeploymentMode: getEnv("DEPLOYMENT_MODE", "hosted"),
		APIKeyHash:     getEnv("SMARTMARKS_API_KEY_HASH", ""),
	}

	cfg.StorageEnabled = cfg.StorageBucket != "" && cfg.StorageEndpoint != ""

	if cfg.DeploymentMode == "hosted" && cfg.IdentityIssuerURL == "" {
		return nil, fmt.Errorf("IDENTITY_ISSUER_URL is required for hosted mode")
	}
	if cfg.IsSelfHosted() && cfg.APIKeyHash == "" {
		return nil, fmt.Errorf("SMARTMARKS_API_KEY_HASH is required for selfhosted mode")
	}

	return cfg, nil
}

// IsSelfHosted returns true if running in self-hosted mode.
func (c *Config) IsSelfHosted() bool {
	return c.DeploymentMode == "selfhosted"
}

// AIEnabled returns true if the LLM classifier is configured.
// When false, classification uses the deterministic keyword fallback only.
func (c *Config) AIEnabled() bool {
	return c.OpenAIKey != ""
}

// CacheEnabled returns true if the Redis metadata cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getEnvWithFallback(primary, fallback, defaultValue string) string {
	if value := os.Getenv(primary); value != "" {
		return value
	}
	if value := os.Getenv(fallback); value != "" {
		return value
	}
	return defaultValue
}
