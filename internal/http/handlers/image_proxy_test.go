package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/config"
	"github.com/smartmarks/smartmarks-api/internal/service"
)

func newImageProxyHandler(t *testing.T) *ImageProxyHandler {
	t.Helper()
	storage, err := service.NewStorageService(&config.Config{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return NewImageProxyHandler(service.NewImageProxyService(storage, testLogger()), testLogger())
}

func TestImageProxyRelaysImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	h := newImageProxyHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/image-proxy?url="+srv.URL+"/pic.png", nil)
	rec := httptest.NewRecorder()
	h.Proxy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=31536000, immutable" {
		t.Errorf("cache control = %q", cc)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("allow origin = %q", origin)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestImageProxyMissingURL(t *testing.T) {
	h := newImageProxyHandler(t)

	rec := httptest.NewRecorder()
	h.Proxy(rec, httptest.NewRequest(http.MethodGet, "/api/v1/image-proxy", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestImageProxyRelaysUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusForbidden)
	}))
	defer srv.Close()

	h := newImageProxyHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/image-proxy?url="+srv.URL+"/blocked.jpg", nil)
	rec := httptest.NewRecorder()
	h.Proxy(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
}
