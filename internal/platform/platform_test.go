package platform

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestCanonicalHost(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "youtube.com"},
		{"https://youtu.be/abc", "youtube.com"},
		{"https://m.youtube.com/watch?v=abc", "youtube.com"},
		{"https://v.douyin.com/x8y9z/", "douyin.com"},
		{"https://vm.tiktok.com/ZMabc/", "tiktok.com"},
		{"https://vt.tiktok.com/ZSabc/", "tiktok.com"},
		{"https://www.xiaohongshu.com/explore/123", "xiaohongshu.com"},
		{"https://xhslink.com/abcdef", "xiaohongshu.com"},
		{"https://WWW.GitHub.com/user/repo", "github.com"},
		{"https://news.ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"https://example.com/page", "example.com"},
	}

	for _, tt := range tests {
		got := CanonicalHost(mustParse(t, tt.raw))
		if got != tt.want {
			t.Errorf("CanonicalHost(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLookupKnownPlatforms(t *testing.T) {
	tests := []struct {
		host     string
		wantKey  string
		wantName string
	}{
		{"youtube.com", "youtube", "YouTube"},
		{"tiktok.com", "tiktok", "TikTok"},
		{"douyin.com", "douyin", "Douyin"},
		{"xiaohongshu.com", "xiaohongshu", "XiaoHongShu"},
		{"facebook.com", "facebook", "Facebook"},
		{"fb.com", "facebook", "Facebook"},
		{"x.com", "x", "X"},
		{"github.com", "github", "GitHub"},
		{"medium.com", "medium", "Medium"},
	}

	for _, tt := range tests {
		info := Lookup(tt.host)
		if info.Key != tt.wantKey || info.Name != tt.wantName {
			t.Errorf("Lookup(%q) = %+v, want {%s %s}", tt.host, info, tt.wantKey, tt.wantName)
		}
	}
}

func TestLookupUnknownHostFallsBackToFirstLabel(t *testing.T) {
	info := Lookup("example.com")
	if info.Key != "example" || info.Name != "Example" {
		t.Errorf("Lookup(example.com) = %+v", info)
	}
}

// Known short-link hosts must round-trip through normalization to the
// documented display name.
func TestNormalizeLookupRoundTrip(t *testing.T) {
	tests := []struct {
		raw      string
		wantName string
	}{
		{"https://v.douyin.com/abc/", "Douyin"},
		{"https://youtu.be/abc", "YouTube"},
		{"https://vm.tiktok.com/abc/", "TikTok"},
		{"https://xhslink.com/abc", "XiaoHongShu"},
	}

	for _, tt := range tests {
		info := FromURL(tt.raw)
		if info.Name != tt.wantName {
			t.Errorf("FromURL(%q).Name = %q, want %q", tt.raw, info.Name, tt.wantName)
		}
	}
}

func TestIsSocial(t *testing.T) {
	social := []string{"facebook.com", "tiktok.com", "douyin.com", "xiaohongshu.com", "youtube.com", "x.com", "reddit.com"}
	for _, h := range social {
		if !IsSocial(h) {
			t.Errorf("IsSocial(%q) = false", h)
		}
	}

	regular := []string{"example.com", "github.com", "medium.com", "news.ycombinator.com"}
	for _, h := range regular {
		if IsSocial(h) {
			t.Errorf("IsSocial(%q) = true", h)
		}
	}
}
