package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/config"
)

func newProxyService(t *testing.T) *ImageProxyService {
	t.Helper()
	storage, err := NewStorageService(&config.Config{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return NewImageProxyService(storage, testLogger())
}

func TestRepairImageURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://cdn.example.com/a.jpg?x=1&amp;y=2", "https://cdn.example.com/a.jpg?x=1&y=2"},
		{"https%3A%2F%2Fcdn.example.com%2Fa.jpg%3Fx%3D1%26amp%3By%3D2", "https://cdn.example.com/a.jpg?x=1&y=2"},
		{"https://cdn.example.com/plain.jpg", "https://cdn.example.com/plain.jpg"},
	}

	for _, tt := range tests {
		if got := repairImageURL(tt.in); got != tt.want {
			t.Errorf("repairImageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImageProxyFetchRelaysUpstream(t *testing.T) {
	var gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	svc := newProxyService(t)
	img, err := svc.Fetch(context.Background(), srv.URL+"/pic.png")
	if err != nil {
		t.Fatal(err)
	}

	if string(img.Data) != "png-bytes" || img.ContentType != "image/png" {
		t.Errorf("img = %q %q", img.Data, img.ContentType)
	}
	if gotReferer != "https://www.facebook.com/" {
		t.Errorf("referer = %q", gotReferer)
	}
}

func TestImageProxyFetchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusForbidden)
	}))
	defer srv.Close()

	svc := newProxyService(t)
	_, err := svc.Fetch(context.Background(), srv.URL+"/blocked.jpg")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", upstream.StatusCode)
	}
}

func TestImageProxyFetchRejectsBadURL(t *testing.T) {
	svc := newProxyService(t)

	for _, raw := range []string{"", "not-a-url", "file:///etc/passwd"} {
		if _, err := svc.Fetch(context.Background(), raw); !errors.Is(err, ErrBadImageURL) {
			t.Errorf("Fetch(%q) err = %v, want ErrBadImageURL", raw, err)
		}
	}
}
