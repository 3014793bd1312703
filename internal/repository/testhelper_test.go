package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/database/migrations"
	"github.com/smartmarks/smartmarks-api/internal/models"
	_ "github.com/tursodatabase/go-libsql"
)

// setupTestDB creates an in-memory SQLite database for testing.
// It runs migrations and returns a database connection that will be
// cleaned up when the test completes.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := migrations.Run(db, nil); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// setupTestRepos creates all repositories using a test database.
func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()
	return NewRepositories(setupTestDB(t))
}

// createTestBookmark inserts a bookmark through the repository and
// returns it.
func createTestBookmark(t *testing.T, repos *Repositories, userID, url, title string) *models.Bookmark {
	t.Helper()

	b := &models.Bookmark{
		UserID:   userID,
		URL:      url,
		Title:    title,
		Category: models.CategoryOther,
		Tags:     []string{"test"},
		Platform: "Web",
	}
	if err := repos.Bookmark.Create(context.Background(), b); err != nil {
		t.Fatalf("failed to create test bookmark: %v", err)
	}
	return b
}

func strPtr(s string) *string {
	return &s
}
