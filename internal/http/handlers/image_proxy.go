package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/smartmarks/smartmarks-api/internal/service"
)

// ImageProxyHandler relays remote images for the web client. Raw chi
// handler: the response is the image payload itself.
type ImageProxyHandler struct {
	proxySvc *service.ImageProxyService
	logger   *slog.Logger
}

// NewImageProxyHandler creates a new image proxy handler.
func NewImageProxyHandler(proxySvc *service.ImageProxyService, logger *slog.Logger) *ImageProxyHandler {
	return &ImageProxyHandler{proxySvc: proxySvc, logger: logger}
}

// Proxy fetches the image named by the url query parameter and relays it.
// Proxied images are immutable by URL, so they get a year-long cache
// lifetime.
func (h *ImageProxyHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	image, err := h.proxySvc.Fetch(r.Context(), rawURL)
	if err != nil {
		var upstream *service.UpstreamError
		switch {
		case errors.Is(err, service.ErrBadImageURL):
			writeError(w, http.StatusBadRequest, "invalid image url")
		case errors.As(err, &upstream):
			writeError(w, upstream.StatusCode, "upstream fetch failed")
		default:
			h.logger.Warn("image proxy fetch failed", "url", rawURL, "error", err)
			writeError(w, http.StatusBadGateway, "failed to fetch image")
		}
		return
	}

	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(image.Data)
}
