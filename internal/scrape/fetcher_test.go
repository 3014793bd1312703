package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/platform"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func serverURL(t *testing.T, srv *httptest.Server) *url.URL {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	return u
}

func TestFetchExtractsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="og:title" content="A Great Post">
			<meta property="og:description" content="All about things.">
			<meta property="og:image" content="https://cdn.example.com/cover.jpg">
		</head></html>`)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, testLogger())
	got := f.Fetch(context.Background(), serverURL(t, srv), platform.Info{Key: "example", Name: "Example"})

	if got.Title != "A Great Post" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Thumbnail != "https://cdn.example.com/cover.jpg" {
		t.Errorf("thumbnail = %q", got.Thumbnail)
	}
	if got.NeedsManualEdit {
		t.Error("NeedsManualEdit set on successful fetch")
	}
}

func TestFetchUnreachableHostDegradesToManualEdit(t *testing.T) {
	// Closed server: connection refused on every attempt.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u := serverURL(t, srv)
	srv.Close()

	f := NewFetcher(2*time.Second, testLogger())
	got := f.Fetch(context.Background(), u, platform.Info{Key: "example", Name: "Example"})

	if !got.NeedsManualEdit {
		t.Error("NeedsManualEdit not set for unreachable host")
	}
	if got.Title != "Example" {
		t.Errorf("title = %q, want platform name fallback", got.Title)
	}
}

func TestFetchKeepsBestPartialResult(t *testing.T) {
	// The page has a title but no thumbnail, so no attempt satisfies the
	// stop condition; the titled partial result must still win.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Partial Page</title>
			<meta name="description" content="some text"></head></html>`)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, testLogger())
	got := f.Fetch(context.Background(), serverURL(t, srv), platform.Info{Key: "example", Name: "Example"})

	if got.Title != "Partial Page" {
		t.Errorf("title = %q", got.Title)
	}
	if got.NeedsManualEdit {
		t.Error("NeedsManualEdit set despite usable title")
	}
}

func TestFetchRespectsCancelledContext(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(5*time.Second, testLogger())
	got := f.Fetch(ctx, serverURL(t, srv), platform.Info{Key: "example", Name: "Example"})

	if called {
		t.Error("request made after context cancellation")
	}
	if !got.NeedsManualEdit {
		t.Error("cancelled fetch should degrade to manual-edit record")
	}
}

func TestAgentsForSocialHostRotates(t *testing.T) {
	agents := AgentsFor("tiktok.com")
	if len(agents) < 3 {
		t.Fatalf("social rotation too short: %d agents", len(agents))
	}
	if agents[0].Label != "facebook-preview" {
		t.Errorf("first agent = %q, want crawler-bot identity", agents[0].Label)
	}

	if got := AgentsFor("example.com"); len(got) != 1 {
		t.Errorf("non-social host got %d agents, want 1", len(got))
	}
}
