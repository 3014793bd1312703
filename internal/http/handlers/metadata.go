package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smartmarks/smartmarks-api/internal/service"
)

// MetadataHandler handles metadata extraction endpoints.
type MetadataHandler struct {
	metadataSvc *service.MetadataService
}

// NewMetadataHandler creates a new metadata handler.
func NewMetadataHandler(metadataSvc *service.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadataSvc: metadataSvc}
}

// FetchMetadataInput represents a metadata extraction request.
type FetchMetadataInput struct {
	Body struct {
		URL string `json:"url" minLength:"1" doc:"Page URL to extract metadata from"`
	}
}

// FetchMetadataOutput represents a metadata extraction response.
type FetchMetadataOutput struct {
	Body struct {
		Title           string `json:"title" doc:"Extracted or fallback title"`
		Description     string `json:"description" doc:"Extracted description, possibly empty"`
		Thumbnail       string `json:"thumbnail" doc:"Thumbnail URL or data URI, always non-empty"`
		Platform        string `json:"platform" doc:"Platform display name"`
		NeedsManualEdit bool   `json:"needsManualEdit,omitempty" doc:"True when extraction failed and the record carries fallback values"`
	}
}

// FetchMetadata runs the extraction pipeline for a URL. Unreachable pages
// still produce a usable record flagged needsManualEdit; only an invalid
// URL is an error.
func (h *MetadataHandler) FetchMetadata(ctx context.Context, input *FetchMetadataInput) (*FetchMetadataOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	meta, err := h.metadataSvc.Fetch(ctx, input.Body.URL)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	out := &FetchMetadataOutput{}
	out.Body.Title = meta.Title
	out.Body.Description = meta.Description
	out.Body.Thumbnail = meta.Thumbnail
	out.Body.Platform = meta.Platform
	out.Body.NeedsManualEdit = meta.NeedsManualEdit
	return out, nil
}
