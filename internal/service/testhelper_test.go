package service

import (
	"database/sql"
	"log/slog"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/classify"
	"github.com/smartmarks/smartmarks-api/internal/database/migrations"
	"github.com/smartmarks/smartmarks-api/internal/repository"
	_ "github.com/tursodatabase/go-libsql"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// setupTestRepos creates repositories over an in-memory database with
// migrations applied.
func setupTestRepos(t *testing.T) *repository.Repositories {
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

	return repository.NewRepositories(db)
}

// fallbackClassifier returns a classifier with no LLM configured, so
// classification is deterministic in tests.
func fallbackClassifier() *classify.Classifier {
	return classify.New("", "gpt-4o-mini", testLogger())
}

func strPtr(s string) *string {
	return &s
}
