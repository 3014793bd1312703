// Package models contains the data models for the service.
// Note: user accounts, OAuth, and sessions are handled by the external
// identity provider. UserID fields reference identity-provider user IDs
// (e.g., "user_xxx").
package models

import "time"

// Category values form the fixed classification taxonomy. Every stored
// bookmark carries one of these (or empty, rendered as "Uncategorized"
// on export).
const (
	CategoryLearningTech  = "Learning/Tech"
	CategoryTools         = "Tools/Resources"
	CategoryHealth        = "Health/Fitness"
	CategoryEntertainment = "Entertainment/Leisure"
	CategoryFoodTravel    = "Food/Travel"
	CategoryOther         = "Other"
)

// Categories lists the taxonomy in classifier priority order.
var Categories = []string{
	CategoryLearningTech,
	CategoryTools,
	CategoryHealth,
	CategoryEntertainment,
	CategoryFoodTravel,
	CategoryOther,
}

// ValidCategory reports whether c is one of the taxonomy values.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// MaxTags is the upper bound on stored tags; longer lists are truncated,
// never rejected.
const MaxTags = 5

// Bookmark is the persisted bookmark entity.
type Bookmark struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	Platform    string    `json:"platform,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Metadata is the transient record produced by the extraction pipeline.
// It is consumed immediately to build a Bookmark and never stored on its own.
type Metadata struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Thumbnail       string `json:"thumbnail"`
	Platform        string `json:"platform"`
	NeedsManualEdit bool   `json:"needsManualEdit,omitempty"`
}

// Classification is the transient result of the classifier.
type Classification struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// APIKey represents a stored API key (self-hosted auth).
type APIKey struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"key_prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}
