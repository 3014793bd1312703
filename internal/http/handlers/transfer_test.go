package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/classify"
	"github.com/smartmarks/smartmarks-api/internal/service"
)

func setupTransferTest(t *testing.T) (*TransferHandler, *service.BookmarkService) {
	t.Helper()
	repos := setupTestRepos(t)
	classifier := classify.New("", "gpt-4o-mini", testLogger())
	importSvc := service.NewImportService(repos, classifier, testLogger())
	return NewTransferHandler(importSvc, testLogger()),
		service.NewBookmarkService(repos, testLogger())
}

func TestExportRequiresAuth(t *testing.T) {
	h, _ := setupTransferTest(t)

	rec := httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks/export", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestExportCSVDownload(t *testing.T) {
	h, bookmarks := setupTransferTest(t)
	ctx := userCtx("user_1")

	if _, err := bookmarks.Create(ctx, "user_1", service.CreateInput{
		URL: "https://example.com", Title: "One",
	}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks/export?format=csv", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".csv") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "example.com") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestExportUnknownFormat(t *testing.T) {
	h, _ := setupTransferTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks/export?format=xml", nil).
		WithContext(userCtx("user_1"))
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestExportSelectedIDsViaPost(t *testing.T) {
	h, bookmarks := setupTransferTest(t)
	ctx := userCtx("user_1")

	kept, err := bookmarks.Create(ctx, "user_1", service.CreateInput{URL: "https://keep.example.com", Title: "Keep"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bookmarks.Create(ctx, "user_1", service.CreateInput{URL: "https://skip.example.com", Title: "Skip"}); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(exportRequest{Format: "json", BookmarkIDs: []string{kept.ID}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/export", bytes.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	out := rec.Body.String()
	if !strings.Contains(out, "keep.example.com") || strings.Contains(out, "skip.example.com") {
		t.Errorf("body = %s", out)
	}

	// Unknown selection is a 404, matching the not-found semantics of the
	// service layer.
	body, _ = json.Marshal(exportRequest{BookmarkIDs: []string{"nope"}})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/export", bytes.NewReader(body)).WithContext(ctx)
	rec = httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestExportPostEmptySelectionRejected(t *testing.T) {
	h, bookmarks := setupTransferTest(t)
	ctx := userCtx("user_1")

	if _, err := bookmarks.Create(ctx, "user_1", service.CreateInput{URL: "https://example.com"}); err != nil {
		t.Fatal(err)
	}

	// POST must name bookmark IDs; an empty selection never falls back to
	// exporting everything.
	for _, body := range []string{`{"format":"json"}`, `{"format":"json","bookmark_ids":[]}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/export", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.Export(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "no bookmarks selected") {
			t.Errorf("body %s: response = %s", body, rec.Body.String())
		}
	}
}

func multipartImport(t *testing.T, format, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if format != "" {
		if err := mw.WriteField("format", format); err != nil {
			t.Fatal(err)
		}
	}
	part, err := mw.CreateFormFile("file", "bookmarks")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportJSONFile(t *testing.T) {
	h, bookmarks := setupTransferTest(t)

	req := multipartImport(t, "json",
		`[{"url":"https://youtube.com/watch?v=abc","title":"Learn React Tutorial"}]`).
		WithContext(userCtx("user_1"))
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result service.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Success != 1 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}

	list, _ := bookmarks.List(context.Background(), "user_1")
	if len(list) != 1 {
		t.Fatalf("imported %d bookmarks", len(list))
	}
}

func TestImportMissingFile(t *testing.T) {
	h, _ := setupTransferTest(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("format", "json")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/import", &buf).
		WithContext(userCtx("user_1"))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}
