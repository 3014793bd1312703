// Package repository defines repository interfaces for data access.
// Note: user accounts, OAuth, and sessions are handled by the external
// identity provider.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

// BookmarkRepository defines methods for bookmark data access. Update and
// Delete take the owning user ID and fold the ownership predicate into the
// write itself, so a non-owner mutation is indistinguishable from a
// missing row.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *models.Bookmark) error
	GetByID(ctx context.Context, id string) (*models.Bookmark, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Bookmark, error)
	ListByIDs(ctx context.Context, userID string, ids []string) ([]*models.Bookmark, error)
	// FindByUserAndURL returns nil when the user has not saved the URL.
	FindByUserAndURL(ctx context.Context, userID, url string) (*models.Bookmark, error)
	// Update writes the supplied editable fields and reports whether a row
	// owned by userID was actually updated.
	Update(ctx context.Context, userID, id string, update BookmarkUpdate) (bool, error)
	// Delete reports whether a row owned by userID was actually deleted.
	Delete(ctx context.Context, userID, id string) (bool, error)
	// DeleteByUserID removes all bookmarks for a user (identity webhook
	// cleanup) and returns the number removed.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}

// BookmarkUpdate carries the editable fields of a bookmark. Nil pointer
// fields leave the stored column untouched. Tags is always written; nil
// is stored as an empty list.
type BookmarkUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Tags        []string
}

// APIKeyRepository defines methods for API key data access.
type APIKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetByKeyHash(ctx context.Context, hash string) (*models.APIKey, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.APIKey, error)
	UpdateLastUsed(ctx context.Context, id string, lastUsed time.Time) error
	Revoke(ctx context.Context, id string) error
}

// Repositories bundles all repositories for dependency injection.
type Repositories struct {
	Bookmark BookmarkRepository
	APIKey   APIKeyRepository
}

// NewRepositories creates all repositories backed by the given database.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Bookmark: NewSQLiteBookmarkRepository(db),
		APIKey:   NewSQLiteAPIKeyRepository(db),
	}
}
