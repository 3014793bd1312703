// Package service contains the business logic layer.
// Note: user accounts, OAuth, and sessions are handled by the external
// identity provider. The UserID in services references its user IDs
// (e.g., "user_xxx").
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smartmarks/smartmarks-api/internal/cache"
	"github.com/smartmarks/smartmarks-api/internal/classify"
	"github.com/smartmarks/smartmarks-api/internal/config"
	"github.com/smartmarks/smartmarks-api/internal/repository"
	"github.com/smartmarks/smartmarks-api/internal/scrape"
)

// Services holds all service instances.
type Services struct {
	Bookmark   *BookmarkService
	Metadata   *MetadataService
	Import     *ImportService
	ImageProxy *ImageProxyService
	Storage    *StorageService
	Classifier *classify.Classifier
}

// NewServices creates all service instances.
func NewServices(ctx context.Context, cfg *config.Config, repos *repository.Repositories, logger *slog.Logger) (*Services, error) {
	classifier := classify.New(cfg.OpenAIKey, cfg.OpenAIModel, logger)
	if !classifier.AIEnabled() {
		logger.Warn("no OpenAI key configured - classification uses the keyword fallback only")
	}

	metaCache, err := cache.NewMetadata(ctx, cfg.RedisURL, cfg.CacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	// Storage backs the image-proxy cache; disabled when no bucket is set.
	storageSvc, err := NewStorageService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage service: %w", err)
	}

	fetcher := scrape.NewFetcher(cfg.FetchTimeout, logger)
	metadataSvc := NewMetadataService(fetcher, metaCache, logger)
	bookmarkSvc := NewBookmarkService(repos, logger)
	importSvc := NewImportService(repos, classifier, logger)
	proxySvc := NewImageProxyService(storageSvc, logger)

	return &Services{
		Bookmark:   bookmarkSvc,
		Metadata:   metadataSvc,
		Import:     importSvc,
		ImageProxy: proxySvc,
		Storage:    storageSvc,
		Classifier: classifier,
	}, nil
}
