package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

// SQLiteBookmarkRepository implements BookmarkRepository for SQLite/libsql.
type SQLiteBookmarkRepository struct {
	db *sql.DB
}

// NewSQLiteBookmarkRepository creates a new SQLite bookmark repository.
func NewSQLiteBookmarkRepository(db *sql.DB) *SQLiteBookmarkRepository {
	return &SQLiteBookmarkRepository{db: db}
}

const bookmarkColumns = `id, user_id, url, title, description, thumbnail,
	   category, tags, platform, created_at, updated_at`

// Create inserts a new bookmark, assigning an ID and timestamps.
func (r *SQLiteBookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	now := time.Now()
	if bookmark.ID == "" {
		bookmark.ID = ulid.Make().String()
	}
	bookmark.CreatedAt = now
	bookmark.UpdatedAt = now

	if bookmark.Tags == nil {
		bookmark.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(bookmark.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bookmarks (
			id, user_id, url, title, description, thumbnail,
			category, tags, platform, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		bookmark.ID,
		bookmark.UserID,
		bookmark.URL,
		bookmark.Title,
		bookmark.Description,
		bookmark.Thumbnail,
		bookmark.Category,
		string(tagsJSON),
		bookmark.Platform,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)

	return err
}

// GetByID retrieves a bookmark by ID. Returns nil when not found.
func (r *SQLiteBookmarkRepository) GetByID(ctx context.Context, id string) (*models.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE id = ?
	`, id)

	return r.scanBookmark(row)
}

// ListByUserID returns a user's bookmarks, newest first.
func (r *SQLiteBookmarkRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookmarks(rows)
}

// ListByIDs returns the user's bookmarks among the given IDs, newest
// first. IDs owned by other users are silently absent from the result.
func (r *SQLiteBookmarkRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]*models.Bookmark, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE user_id = ? AND id IN (`+placeholders+`)
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookmarks(rows)
}

// FindByUserAndURL returns the user's bookmark for a URL, or nil.
func (r *SQLiteBookmarkRepository) FindByUserAndURL(ctx context.Context, userID, url string) (*models.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE user_id = ? AND url = ?
		LIMIT 1
	`, userID, url)

	return r.scanBookmark(row)
}

// Update writes the supplied editable fields of a bookmark. Omitted
// fields keep their stored values; tags are always written. The WHERE
// clause carries the owner predicate so the mutation and the ownership
// check are one atomic statement.
func (r *SQLiteBookmarkRepository) Update(ctx context.Context, userID, id string, update BookmarkUpdate) (bool, error) {
	tags := update.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return false, fmt.Errorf("marshal tags: %w", err)
	}

	sets := []string{"tags = ?", "updated_at = ?"}
	args := []any{string(tagsJSON), time.Now().Format(time.RFC3339)}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}

	args = append(args, id, userID)

	result, err := r.db.ExecContext(ctx, `
		UPDATE bookmarks SET `+strings.Join(sets, ", ")+`
		WHERE id = ? AND user_id = ?
	`, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Delete removes a bookmark if it belongs to userID.
func (r *SQLiteBookmarkRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// DeleteByUserID removes all of a user's bookmarks.
func (r *SQLiteBookmarkRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE user_id = ?
	`, userID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// scanBookmark scans a single row into a Bookmark.
func (r *SQLiteBookmarkRepository) scanBookmark(row *sql.Row) (*models.Bookmark, error) {
	var b models.Bookmark
	var title, description, thumbnail, category, platform sql.NullString
	var tagsJSON string
	var createdAt, updatedAt string

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.URL,
		&title,
		&description,
		&thumbnail,
		&category,
		&tagsJSON,
		&platform,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fillBookmark(&b, title, description, thumbnail, category, platform, tagsJSON, createdAt, updatedAt)
	return &b, nil
}

// scanBookmarks scans multiple rows into a Bookmark slice.
func (r *SQLiteBookmarkRepository) scanBookmarks(rows *sql.Rows) ([]*models.Bookmark, error) {
	var bookmarks []*models.Bookmark

	for rows.Next() {
		var b models.Bookmark
		var title, description, thumbnail, category, platform sql.NullString
		var tagsJSON string
		var createdAt, updatedAt string

		err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.URL,
			&title,
			&description,
			&thumbnail,
			&category,
			&tagsJSON,
			&platform,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		fillBookmark(&b, title, description, thumbnail, category, platform, tagsJSON, createdAt, updatedAt)
		bookmarks = append(bookmarks, &b)
	}

	return bookmarks, rows.Err()
}

func fillBookmark(b *models.Bookmark, title, description, thumbnail, category, platform sql.NullString, tagsJSON, createdAt, updatedAt string) {
	b.Title = title.String
	b.Description = description.String
	b.Thumbnail = thumbnail.String
	b.Category = category.String
	b.Platform = platform.String

	b.Tags = []string{}
	if tagsJSON != "" {
		_ = json.Unmarshal([]byte(tagsJSON), &b.Tags)
	}

	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
}
