package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrBadImageURL marks a proxy request whose url parameter cannot be used.
var ErrBadImageURL = fmt.Errorf("invalid image url")

// UpstreamError carries the status of a failed upstream image fetch so
// the handler can relay it.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream image fetch failed with status %d", e.StatusCode)
}

// ProxiedImage is a relayed image payload.
type ProxiedImage struct {
	Data        []byte
	ContentType string
}

// ImageProxyService fetches remote images on behalf of the browser. CDNs
// behind hotlink protection refuse requests without a referer from the
// platform's own domain, so the proxy spoofs one. When object storage is
// enabled, fetched images are cached write-through by URL hash.
type ImageProxyService struct {
	client  *resty.Client
	storage *StorageService
	logger  *slog.Logger
}

// NewImageProxyService creates a new image proxy service.
func NewImageProxyService(storage *StorageService, logger *slog.Logger) *ImageProxyService {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeaders(map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":     "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8",
		"Referer":    "https://www.facebook.com/",
	})

	return &ImageProxyService{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

// Fetch relays the image at rawURL. The url parameter often arrives
// double-escaped from HTML contexts ("&amp;" for "&"), so it is repaired
// before use.
func (s *ImageProxyService) Fetch(ctx context.Context, rawURL string) (*ProxiedImage, error) {
	target := repairImageURL(rawURL)

	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrBadImageURL
	}

	cacheKey := imageCacheKey(target)
	if data, contentType, err := s.storage.GetImage(ctx, cacheKey); err == nil {
		return &ProxiedImage{Data: data, ContentType: contentType}, nil
	}

	resp, err := s.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode()}
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	image := &ProxiedImage{Data: resp.Body(), ContentType: contentType}

	if s.storage.IsEnabled() {
		if err := s.storage.StoreImage(ctx, cacheKey, image.Data, contentType); err != nil {
			s.logger.Warn("image cache write failed", "url", target, "error", err)
		}
	}

	return image, nil
}

// repairImageURL undoes double-escaping applied by HTML contexts.
func repairImageURL(rawURL string) string {
	if decoded, err := url.QueryUnescape(rawURL); err == nil {
		rawURL = decoded
	}
	return strings.ReplaceAll(rawURL, "&amp;", "&")
}

func imageCacheKey(target string) string {
	sum := sha256.Sum256([]byte(target))
	return hex.EncodeToString(sum[:])
}
