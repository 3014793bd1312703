// Package platform maps URL hostnames to known social/content platforms.
// Social platforms serve different markup (or block outright) depending on
// the requesting user agent, so the rest of the pipeline branches on the
// canonical hostname produced here.
package platform

import (
	"net/url"
	"strings"
)

// Info identifies a platform by its lowercase key and display name.
type Info struct {
	Key  string // lowercase slug, e.g. "youtube"
	Name string // display name, e.g. "YouTube"
}

// platformTable maps canonical hostnames to platform info.
var platformTable = map[string]Info{
	"facebook.com":    {Key: "facebook", Name: "Facebook"},
	"fb.com":          {Key: "facebook", Name: "Facebook"},
	"instagram.com":   {Key: "instagram", Name: "Instagram"},
	"tiktok.com":      {Key: "tiktok", Name: "TikTok"},
	"douyin.com":      {Key: "douyin", Name: "Douyin"},
	"xiaohongshu.com": {Key: "xiaohongshu", Name: "XiaoHongShu"},
	"youtube.com":     {Key: "youtube", Name: "YouTube"},
	"twitter.com":     {Key: "twitter", Name: "Twitter"},
	"x.com":           {Key: "x", Name: "X"},
	"github.com":      {Key: "github", Name: "GitHub"},
	"reddit.com":      {Key: "reddit", Name: "Reddit"},
	"linkedin.com":    {Key: "linkedin", Name: "LinkedIn"},
	"medium.com":      {Key: "medium", Name: "Medium"},
	"pinterest.com":   {Key: "pinterest", Name: "Pinterest"},
}

// socialHosts are the canonical hostnames that require the anti-bot fetch
// strategy (user-agent rotation).
var socialHosts = map[string]bool{
	"facebook.com":    true,
	"fb.com":          true,
	"instagram.com":   true,
	"tiktok.com":      true,
	"douyin.com":      true,
	"xiaohongshu.com": true,
	"xhslink.com":     true,
	"xhs.cn":          true,
	"youtube.com":     true,
	"youtu.be":        true,
	"twitter.com":     true,
	"x.com":           true,
	"reddit.com":      true,
	"linkedin.com":    true,
	"pinterest.com":   true,
}

// shortLinkPrefixes are mobile/short-link subdomains collapsed to the
// registrable domain (v.douyin.com -> douyin.com).
var shortLinkPrefixes = []string{"m.", "v.", "vm.", "vt."}

// CanonicalHost normalizes a parsed URL's hostname: lowercases, strips
// "www.", collapses mobile/short-link subdomains, and applies fixed
// platform aliases.
func CanonicalHost(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, prefix := range shortLinkPrefixes {
		if strings.HasPrefix(host, prefix) && strings.Count(host, ".") >= 2 {
			labels := strings.Split(host, ".")
			host = strings.Join(labels[len(labels)-2:], ".")
			break
		}
	}

	switch {
	case host == "youtu.be":
		host = "youtube.com"
	case strings.Contains(host, "xhs"):
		host = "xiaohongshu.com"
	case strings.Contains(host, "tiktok.com"):
		host = "tiktok.com"
	case strings.Contains(host, "douyin.com"):
		host = "douyin.com"
	}

	return host
}

// Lookup returns platform info for a canonical hostname. Unknown hosts fall
// back to the first hostname label, capitalized.
func Lookup(host string) Info {
	if info, ok := platformTable[host]; ok {
		return info
	}

	key := host
	if i := strings.IndexByte(host, '.'); i > 0 {
		key = host[:i]
	}
	return Info{Key: key, Name: capitalize(key)}
}

// FromURL parses a raw URL and returns its platform info. Returns the
// zero Info when the URL does not parse.
func FromURL(rawURL string) Info {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return Info{}
	}
	return Lookup(CanonicalHost(u))
}

// IsSocial reports whether the canonical hostname belongs to a platform
// that needs the anti-bot fetch strategy.
func IsSocial(host string) bool {
	return socialHosts[host]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
