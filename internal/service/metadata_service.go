package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/smartmarks/smartmarks-api/internal/cache"
	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/platform"
	"github.com/smartmarks/smartmarks-api/internal/scrape"
)

// MetadataService runs the extraction pipeline: normalize the URL, check
// the cache, fetch and extract, then guarantee title and thumbnail before
// returning.
type MetadataService struct {
	fetcher *scrape.Fetcher
	cache   *cache.MetadataCache
	logger  *slog.Logger
}

// NewMetadataService creates a new metadata service. cache may be nil.
func NewMetadataService(fetcher *scrape.Fetcher, metaCache *cache.MetadataCache, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		fetcher: fetcher,
		cache:   metaCache,
		logger:  logger,
	}
}

// Fetch returns metadata for a URL. Only URL validation can fail; scrape
// failures degrade to a manual-edit record with fallback values, so the
// returned metadata always has a non-empty title and thumbnail.
func (s *MetadataService) Fetch(ctx context.Context, rawURL string) (models.Metadata, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Hostname() == "" {
		return models.Metadata{}, fmt.Errorf("invalid url %q", rawURL)
	}

	info := platform.Lookup(platform.CanonicalHost(pageURL))

	if cached, ok := s.cache.Get(ctx, rawURL); ok {
		s.logger.Debug("metadata cache hit", "url", rawURL)
		return *cached, nil
	}

	meta := s.fetcher.Fetch(ctx, pageURL, info)

	meta.Title = scrape.CleanText(meta.Title, scrape.MaxTitleLen)
	meta.Description = scrape.CleanText(meta.Description, scrape.MaxDescriptionLen)
	if meta.Title == "" {
		meta.Title = info.Name
	}
	if meta.Thumbnail == "" {
		meta.Thumbnail = scrape.ResolveThumbnail(info, pageURL)
	}

	// Manual-edit records are transient failures; caching them would pin
	// the bad result for the whole TTL.
	if !meta.NeedsManualEdit {
		s.cache.Set(ctx, rawURL, meta)
	}

	return meta, nil
}
