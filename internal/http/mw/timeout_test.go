package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutReturnsGatewayTimeout(t *testing.T) {
	handler := Timeout(TimeoutConfig{Default: 20 * time.Millisecond})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
				t.Error("request context never cancelled")
			}
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTimeoutSkipPattern(t *testing.T) {
	handler := Timeout(TimeoutConfig{
		Default:      10 * time.Millisecond,
		SkipPatterns: []string{"/image-proxy"},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); ok {
			t.Error("skip pattern still has a deadline")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/image-proxy?url=x", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTimeoutExtendedPattern(t *testing.T) {
	handler := Timeout(TimeoutConfig{
		Default:          5 * time.Millisecond,
		Extended:         200 * time.Millisecond,
		ExtendedPatterns: []string{"/fetch-metadata"},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/fetch-metadata", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
