package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/smartmarks/smartmarks-api/internal/platform"
)

// CDN URL patterns per platform. These change when the platforms rotate
// their CDN layouts, so keep them loose: scheme + host pattern + path up
// to a quote or whitespace boundary.
var (
	facebookCDNRe = regexp.MustCompile(`https://scontent[^"'\s\\]+\.jpg[^"'\s\\]*`)
	xhsImageRe    = regexp.MustCompile(`https://sns-webpic[^"'\s\\]+|https://ci\.xiaohongshu\.com/[^"'\s\\]+`)
	douyinCDNRe   = regexp.MustCompile(`https://[^"'\s\\]*(?:douyinpic\.com|tiktokcdn[^"'\s\\/]*\.com|muscdn\.com)/[^"'\s\\]+`)
)

// extractPlatformThumbnail runs the per-platform thumbnail heuristics.
// Only called after the generic OpenGraph/Twitter chain found nothing.
func extractPlatformThumbnail(doc *goquery.Document, info platform.Info) string {
	switch info.Key {
	case "facebook", "instagram":
		return facebookThumbnail(doc)
	case "xiaohongshu":
		return xiaohongshuThumbnail(doc)
	case "tiktok", "douyin":
		return shortVideoThumbnail(doc)
	default:
		return ""
	}
}

// facebookThumbnail scans known photo containers for scontent CDN URLs,
// then falls back to JSON-LD image fields.
func facebookThumbnail(doc *goquery.Document) string {
	var found string
	doc.Find("img[src*='scontent'], div[data-imgperflogname] img, a[role='link'] img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if src, ok := s.Attr("src"); ok && facebookCDNRe.MatchString(src) {
			found = src
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	if img := jsonLDImage(doc); img != "" {
		return img
	}

	html, err := doc.Html()
	if err != nil {
		return ""
	}
	return facebookCDNRe.FindString(html)
}

// xiaohongshuThumbnail prefers og:image entries that are not avatars or
// icons, then regex-scans the raw document for note image URLs.
func xiaohongshuThumbnail(doc *goquery.Document) string {
	var found string
	doc.Find(`meta[property="og:image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return true
		}
		lower := strings.ToLower(content)
		if strings.Contains(lower, "avatar") || strings.Contains(lower, "icon") {
			return true
		}
		found = content
		return false
	})
	if found != "" {
		return found
	}

	html, err := doc.Html()
	if err != nil {
		return ""
	}
	return xhsImageRe.FindString(html)
}

// shortVideoThumbnail covers TikTok and Douyin: JSON-LD thumbnailUrl or
// image first, then CDN URL patterns in the raw document.
func shortVideoThumbnail(doc *goquery.Document) string {
	if img := jsonLDImage(doc); img != "" {
		return img
	}

	html, err := doc.Html()
	if err != nil {
		return ""
	}
	return douyinCDNRe.FindString(html)
}

// jsonLDImage walks ld+json script blocks for thumbnailUrl/image fields.
// Blocks may hold a single object or an array of them; image values may be
// a string or an array of strings.
func jsonLDImage(doc *goquery.Document) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.Text()
		if raw == "" || !gjson.Valid(raw) {
			return true
		}

		blocks := []gjson.Result{gjson.Parse(raw)}
		if blocks[0].IsArray() {
			blocks = blocks[0].Array()
		}

		for _, block := range blocks {
			for _, field := range []string{"thumbnailUrl", "image", "image.url"} {
				v := block.Get(field)
				if v.IsArray() {
					arr := v.Array()
					if len(arr) > 0 {
						v = arr[0]
					}
				}
				if v.Type == gjson.String && strings.HasPrefix(v.String(), "http") {
					found = v.String()
					return false
				}
			}
		}
		return true
	})
	return found
}
