package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/platform"
	"github.com/smartmarks/smartmarks-api/internal/repository"
)

// ErrNotFound covers both a missing bookmark and one owned by another
// user. The two are deliberately indistinguishable to callers so IDs
// can't be probed.
var ErrNotFound = errors.New("bookmark not found")

// BookmarkService handles bookmark CRUD.
type BookmarkService struct {
	repos  *repository.Repositories
	logger *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(repos *repository.Repositories, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{repos: repos, logger: logger}
}

// CreateInput holds the fields accepted when saving a bookmark.
type CreateInput struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Platform    string   `json:"platform,omitempty"`
}

// UpdateInput holds the editable fields of a bookmark. URL, platform and
// thumbnail are part of the bookmark's identity and stay immutable after
// creation. Nil pointer fields are left untouched; tags are always
// written, with nil stored as an empty list.
type UpdateInput struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Create saves a new bookmark for the user.
func (s *BookmarkService) Create(ctx context.Context, userID string, input CreateInput) (*models.Bookmark, error) {
	if input.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if u, err := url.Parse(input.URL); err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid url %q", input.URL)
	}

	platformName := input.Platform
	if platformName == "" {
		platformName = platform.FromURL(input.URL).Name
	}
	if platformName == "" {
		platformName = "Web"
	}

	tags := input.Tags
	if len(tags) > models.MaxTags {
		tags = tags[:models.MaxTags]
	}

	bookmark := &models.Bookmark{
		UserID:      userID,
		URL:         input.URL,
		Title:       input.Title,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
		Category:    input.Category,
		Tags:        tags,
		Platform:    platformName,
	}

	if err := s.repos.Bookmark.Create(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	s.logger.Info("bookmark created", "bookmark_id", bookmark.ID, "user_id", userID, "platform", platformName)
	return bookmark, nil
}

// List returns the user's bookmarks, newest first.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	bookmarks, err := s.repos.Bookmark.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	if bookmarks == nil {
		bookmarks = []*models.Bookmark{}
	}
	return bookmarks, nil
}

// Update edits a bookmark's title, description, category and tags.
// Omitted fields keep their stored values. The ownership predicate rides
// inside the repository's conditional write.
func (s *BookmarkService) Update(ctx context.Context, userID string, input UpdateInput) (*models.Bookmark, error) {
	if input.ID == "" {
		return nil, fmt.Errorf("id is required")
	}

	tags := input.Tags
	if len(tags) > models.MaxTags {
		tags = tags[:models.MaxTags]
	}

	updated, err := s.repos.Bookmark.Update(ctx, userID, input.ID, repository.BookmarkUpdate{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Tags:        tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}
	if !updated {
		return nil, ErrNotFound
	}

	return s.repos.Bookmark.GetByID(ctx, input.ID)
}

// Delete removes the user's bookmark.
func (s *BookmarkService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.repos.Bookmark.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.logger.Info("bookmark deleted", "bookmark_id", id, "user_id", userID)
	return nil
}

// PurgeUser removes all bookmarks for a deleted user (identity webhook).
func (s *BookmarkService) PurgeUser(ctx context.Context, userID string) error {
	n, err := s.repos.Bookmark.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to purge bookmarks: %w", err)
	}

	s.logger.Info("purged bookmarks for deleted user", "user_id", userID, "count", n)
	return nil
}
