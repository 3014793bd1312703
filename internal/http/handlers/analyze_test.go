package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/classify"
	"github.com/smartmarks/smartmarks-api/internal/models"
)

func TestAnalyzeRequiresAuth(t *testing.T) {
	h := NewAnalyzeHandler(classify.New("", "gpt-4o-mini", testLogger()))

	input := &AnalyzeInput{}
	input.Body.URL = "https://example.com"

	_, err := h.Analyze(context.Background(), input)
	if statusOf(t, err) != http.StatusUnauthorized {
		t.Errorf("err = %v", err)
	}
}

func TestAnalyzeReturnsTaxonomyCategory(t *testing.T) {
	h := NewAnalyzeHandler(classify.New("", "gpt-4o-mini", testLogger()))

	input := &AnalyzeInput{}
	input.Body.URL = "https://youtube.com/watch?v=abc"
	input.Body.Title = "Learn React Tutorial"

	out, err := h.Analyze(userCtx("user_1"), input)
	if err != nil {
		t.Fatal(err)
	}
	if out.Body.Category != models.CategoryLearningTech {
		t.Errorf("category = %q", out.Body.Category)
	}
	if len(out.Body.Tags) == 0 {
		t.Error("no tags")
	}
}

func TestAnalyzeNoMatchIsOther(t *testing.T) {
	h := NewAnalyzeHandler(classify.New("", "gpt-4o-mini", testLogger()))

	input := &AnalyzeInput{}
	input.Body.URL = "https://example.com/zzz"

	out, err := h.Analyze(userCtx("user_1"), input)
	if err != nil {
		t.Fatal(err)
	}
	if out.Body.Category != models.CategoryOther {
		t.Errorf("category = %q", out.Body.Category)
	}
}
