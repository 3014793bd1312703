package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/service"
)

// BookmarkHandler handles bookmark CRUD endpoints.
type BookmarkHandler struct {
	bookmarkSvc *service.BookmarkService
}

// NewBookmarkHandler creates a new bookmark handler.
func NewBookmarkHandler(bookmarkSvc *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkSvc: bookmarkSvc}
}

// ListBookmarksOutput represents the bookmark list response.
type ListBookmarksOutput struct {
	Body struct {
		Bookmarks []*models.Bookmark `json:"bookmarks"`
	}
}

// ListBookmarks returns the caller's bookmarks, newest first.
func (h *BookmarkHandler) ListBookmarks(ctx context.Context, input *struct{}) (*ListBookmarksOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	bookmarks, err := h.bookmarkSvc.List(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list bookmarks")
	}

	out := &ListBookmarksOutput{}
	out.Body.Bookmarks = bookmarks
	return out, nil
}

// CreateBookmarkInput represents a create request. Title and text may be
// pre-filled by a share target, everything except the URL is optional.
type CreateBookmarkInput struct {
	Body struct {
		URL         string   `json:"url" minLength:"1" doc:"URL to bookmark"`
		Title       string   `json:"title,omitempty" doc:"Page title"`
		Description string   `json:"description,omitempty" doc:"Page description"`
		Thumbnail   string   `json:"thumbnail,omitempty" doc:"Thumbnail URL or data URI"`
		Category    string   `json:"category,omitempty" doc:"Category from the fixed taxonomy"`
		Tags        []string `json:"tags,omitempty" doc:"Tags; lists longer than 5 are truncated"`
		Platform    string   `json:"platform,omitempty" doc:"Platform display name; derived from the URL when empty"`
	}
}

// BookmarkOutput wraps a single bookmark response.
type BookmarkOutput struct {
	Body struct {
		Bookmark *models.Bookmark `json:"bookmark"`
	}
}

// CreateBookmark saves a new bookmark for the caller.
func (h *BookmarkHandler) CreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*BookmarkOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	bookmark, err := h.bookmarkSvc.Create(ctx, userID, service.CreateInput{
		URL:         input.Body.URL,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Thumbnail:   input.Body.Thumbnail,
		Category:    input.Body.Category,
		Tags:        input.Body.Tags,
		Platform:    input.Body.Platform,
	})
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	out := &BookmarkOutput{}
	out.Body.Bookmark = bookmark
	return out, nil
}

// UpdateBookmarkInput represents an update request. URL, platform and
// thumbnail are immutable after creation. Omitted fields keep their
// stored values; omitted tags clear the list.
type UpdateBookmarkInput struct {
	Body struct {
		ID          string   `json:"id" minLength:"1" doc:"Bookmark ID"`
		Title       *string  `json:"title,omitempty" doc:"New title; omit to keep"`
		Description *string  `json:"description,omitempty" doc:"New description; omit to keep"`
		Category    *string  `json:"category,omitempty" doc:"New category; omit to keep"`
		Tags        []string `json:"tags,omitempty" doc:"New tags; lists longer than 5 are truncated"`
	}
}

// UpdateBookmark edits a bookmark owned by the caller.
func (h *BookmarkHandler) UpdateBookmark(ctx context.Context, input *UpdateBookmarkInput) (*BookmarkOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	bookmark, err := h.bookmarkSvc.Update(ctx, userID, service.UpdateInput{
		ID:          input.Body.ID,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Category:    input.Body.Category,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, huma.Error404NotFound("bookmark not found")
		}
		return nil, huma.Error400BadRequest(err.Error())
	}

	out := &BookmarkOutput{}
	out.Body.Bookmark = bookmark
	return out, nil
}

// DeleteBookmarkInput represents a delete request.
type DeleteBookmarkInput struct {
	ID string `query:"id" required:"true" doc:"Bookmark ID"`
}

// DeleteBookmarkOutput represents a delete response.
type DeleteBookmarkOutput struct {
	Body struct {
		Deleted bool `json:"deleted"`
	}
}

// DeleteBookmark removes a bookmark owned by the caller.
func (h *BookmarkHandler) DeleteBookmark(ctx context.Context, input *DeleteBookmarkInput) (*DeleteBookmarkOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	if err := h.bookmarkSvc.Delete(ctx, userID, input.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, huma.Error404NotFound("bookmark not found")
		}
		return nil, huma.Error500InternalServerError("failed to delete bookmark")
	}

	out := &DeleteBookmarkOutput{}
	out.Body.Deleted = true
	return out, nil
}
