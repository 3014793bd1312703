package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smartmarks/smartmarks-api/internal/classify"
)

// AnalyzeHandler handles bookmark classification endpoints.
type AnalyzeHandler struct {
	classifier *classify.Classifier
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(classifier *classify.Classifier) *AnalyzeHandler {
	return &AnalyzeHandler{classifier: classifier}
}

// AnalyzeInput represents a classification request.
type AnalyzeInput struct {
	Body struct {
		URL         string `json:"url" minLength:"1" doc:"Bookmark URL"`
		Title       string `json:"title,omitempty" doc:"Page title"`
		Description string `json:"description,omitempty" doc:"Page description"`
	}
}

// AnalyzeOutput represents a classification response.
type AnalyzeOutput struct {
	Body struct {
		Category string   `json:"category" doc:"Category from the fixed taxonomy"`
		Tags     []string `json:"tags" doc:"Suggested tags (at most 5)"`
	}
}

// Analyze classifies a bookmark into the fixed taxonomy. The classifier
// degrades to keyword matching internally, so this never fails once the
// input validates.
func (h *AnalyzeHandler) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	classification := h.classifier.Classify(ctx, classify.Input{
		URL:         input.Body.URL,
		Title:       input.Body.Title,
		Description: input.Body.Description,
	})

	out := &AnalyzeOutput{}
	out.Body.Category = classification.Category
	out.Body.Tags = classification.Tags
	return out, nil
}
