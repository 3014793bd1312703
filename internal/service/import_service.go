package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/classify"
	"github.com/smartmarks/smartmarks-api/internal/codec"
	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/platform"
	"github.com/smartmarks/smartmarks-api/internal/repository"
)

// ImportResult accumulates counts over one import batch.
type ImportResult struct {
	Success    int      `json:"success"`
	Failed     int      `json:"failed"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors"`
}

// ImportService handles bulk import and export of bookmarks.
type ImportService struct {
	repos      *repository.Repositories
	classifier *classify.Classifier
	logger     *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(repos *repository.Repositories, classifier *classify.Classifier, logger *slog.Logger) *ImportService {
	return &ImportService{
		repos:      repos,
		classifier: classifier,
		logger:     logger,
	}
}

// Import parses an uploaded file and creates the user's missing
// bookmarks. Records run strictly sequentially: each one dedupes against
// the store, classifies when category or tags are absent, then creates.
// A record failing never aborts the batch.
func (s *ImportService) Import(ctx context.Context, userID string, content []byte, format codec.Format) (*ImportResult, error) {
	records, err := codec.Parse(content, format)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []string{}}

	for _, record := range records {
		if err := s.importOne(ctx, userID, record); err != nil {
			if err == errDuplicate {
				result.Duplicates++
				continue
			}
			result.Failed++
			name := record.Title
			if name == "" {
				name = record.URL
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to import: %s", name))
			s.logger.Warn("import record failed", "url", record.URL, "error", err)
			continue
		}
		result.Success++
	}

	s.logger.Info("import completed",
		"user_id", userID,
		"success", result.Success,
		"failed", result.Failed,
		"duplicates", result.Duplicates,
	)
	return result, nil
}

var errDuplicate = fmt.Errorf("duplicate bookmark")

func (s *ImportService) importOne(ctx context.Context, userID string, record codec.Record) error {
	if record.URL == "" {
		return fmt.Errorf("record has no url")
	}

	existing, err := s.repos.Bookmark.FindByUserAndURL(ctx, userID, record.URL)
	if err != nil {
		return err
	}
	if existing != nil {
		return errDuplicate
	}

	category := record.Category
	tags := record.Tags
	if category == "" || len(tags) == 0 {
		classification := s.classifier.Classify(ctx, classify.Input{
			URL:         record.URL,
			Title:       record.Title,
			Description: record.Description,
		})
		if category == "" {
			category = classification.Category
		}
		if len(tags) == 0 {
			tags = classification.Tags
		}
	}
	if category == "" {
		category = models.CategoryOther
	}
	if len(tags) > models.MaxTags {
		tags = tags[:models.MaxTags]
	}

	title := record.Title
	if title == "" {
		title = "Untitled"
	}
	platformName := record.Platform
	if platformName == "" {
		platformName = platform.FromURL(record.URL).Name
	}
	if platformName == "" {
		platformName = "Web"
	}

	return s.repos.Bookmark.Create(ctx, &models.Bookmark{
		UserID:      userID,
		URL:         record.URL,
		Title:       title,
		Description: record.Description,
		Thumbnail:   record.Thumbnail,
		Category:    category,
		Tags:        tags,
		Platform:    platformName,
	})
}

// Export renders the user's bookmarks in the requested format. When ids
// is non-empty only those bookmarks are exported; IDs the user does not
// own are ignored.
func (s *ImportService) Export(ctx context.Context, userID string, format codec.Format, ids []string) (codec.File, error) {
	var (
		bookmarks []*models.Bookmark
		err       error
	)
	if len(ids) > 0 {
		bookmarks, err = s.repos.Bookmark.ListByIDs(ctx, userID, ids)
	} else {
		bookmarks, err = s.repos.Bookmark.ListByUserID(ctx, userID)
	}
	if err != nil {
		return codec.File{}, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	if len(ids) > 0 && len(bookmarks) == 0 {
		return codec.File{}, ErrNotFound
	}

	flat := make([]models.Bookmark, len(bookmarks))
	for i, b := range bookmarks {
		flat[i] = *b
	}

	return codec.Export(flat, format, time.Now())
}
