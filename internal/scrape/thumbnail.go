package scrape

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/smartmarks/smartmarks-api/internal/platform"
)

// logoAssets is the manifest of bundled platform logos, keyed by platform
// key. A static set instead of a filesystem probe keeps the fallback
// decision off the I/O path.
var logoAssets = map[string]string{
	"facebook":    "/assets/logos/facebook.png",
	"instagram":   "/assets/logos/instagram.png",
	"tiktok":      "/assets/logos/tiktok.png",
	"douyin":      "/assets/logos/douyin.png",
	"xiaohongshu": "/assets/logos/xiaohongshu.png",
	"youtube":     "/assets/logos/youtube.png",
	"twitter":     "/assets/logos/twitter.png",
	"x":           "/assets/logos/x.png",
	"github":      "/assets/logos/github.png",
	"reddit":      "/assets/logos/reddit.png",
	"linkedin":    "/assets/logos/linkedin.png",
	"pinterest":   "/assets/logos/pinterest.png",
}

// brandStyle holds the gradient stops and emoji used by the generated
// placeholder for a platform.
type brandStyle struct {
	from, to string
	emoji    string
}

var brandStyles = map[string]brandStyle{
	"facebook":    {from: "#1877F2", to: "#0C5DC7", emoji: "👥"},
	"instagram":   {from: "#E4405F", to: "#833AB4", emoji: "📷"},
	"tiktok":      {from: "#010101", to: "#69C9D0", emoji: "🎵"},
	"douyin":      {from: "#010101", to: "#FE2C55", emoji: "🎵"},
	"xiaohongshu": {from: "#FF2442", to: "#D81E3C", emoji: "📕"},
	"youtube":     {from: "#FF0000", to: "#B31217", emoji: "▶️"},
	"twitter":     {from: "#1DA1F2", to: "#0C85D0", emoji: "🐦"},
	"x":           {from: "#000000", to: "#333333", emoji: "✖️"},
	"github":      {from: "#24292E", to: "#57606A", emoji: "🐙"},
	"reddit":      {from: "#FF4500", to: "#CC3700", emoji: "🤖"},
	"linkedin":    {from: "#0A66C2", to: "#084D93", emoji: "💼"},
	"medium":      {from: "#02B875", to: "#018F5B", emoji: "✍️"},
	"pinterest":   {from: "#E60023", to: "#B3001B", emoji: "📌"},
}

var defaultStyle = brandStyle{from: "#6366F1", to: "#8B5CF6", emoji: "🔖"}

const faviconServiceURL = "https://www.google.com/s2/favicons?domain=%s&sz=128"

// ResolveThumbnail guarantees a non-empty thumbnail when extraction found
// nothing. Priority: bundled platform logo, then a high-resolution favicon
// from the page hostname, then a generated placeholder. The placeholder is
// a data URI so the chain always terminates without network access.
func ResolveThumbnail(info platform.Info, pageURL *url.URL) string {
	if path, ok := logoAssets[info.Key]; ok {
		return path
	}

	if pageURL != nil && pageURL.Hostname() != "" {
		return fmt.Sprintf(faviconServiceURL, pageURL.Hostname())
	}

	return PlaceholderThumbnail(info)
}

// PlaceholderThumbnail renders an inline SVG placeholder for the platform:
// a brand-colored gradient card with an emoji and the display name.
func PlaceholderThumbnail(info platform.Info) string {
	style, ok := brandStyles[info.Key]
	if !ok {
		style = defaultStyle
	}

	name := info.Name
	if name == "" {
		name = "Bookmark"
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="225" viewBox="0 0 400 225">`+
		`<defs><linearGradient id="g" x1="0%%" y1="0%%" x2="100%%" y2="100%%">`+
		`<stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>`+
		`</linearGradient></defs>`+
		`<rect width="400" height="225" fill="url(#g)"/>`+
		`<text x="200" y="100" font-size="56" text-anchor="middle">%s</text>`+
		`<text x="200" y="160" font-size="24" font-family="system-ui, sans-serif" fill="#FFFFFF" text-anchor="middle">%s</text>`+
		`</svg>`,
		style.from, style.to, style.emoji, svgEscape(name))

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func svgEscape(s string) string {
	return svgEscaper.Replace(s)
}
