package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/platform"
)

// Extract pulls title, description and thumbnail out of a parsed page.
// Each field walks its own ordered fallback chain; the first non-empty
// match wins. Missing fields stay empty here - the caller decides how to
// degrade (platform name for the title, thumbnail resolver, etc.).
func Extract(doc *goquery.Document, pageURL *url.URL, info platform.Info) models.Metadata {
	return models.Metadata{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		Thumbnail:   extractThumbnail(doc, pageURL, info),
		Platform:    info.Name,
	}
}

func extractTitle(doc *goquery.Document) string {
	chain := []func() string{
		func() string { return metaContent(doc, `meta[property="og:title"]`) },
		func() string { return metaContent(doc, `meta[name="twitter:title"]`) },
		func() string { return metaContent(doc, `meta[property="og:site_name"]`) },
		func() string { return strings.TrimSpace(doc.Find("title").First().Text()) },
		func() string { return strings.TrimSpace(doc.Find("h1").First().Text()) },
	}

	for _, get := range chain {
		if v := get(); v != "" {
			return v
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
		`meta[property="description"]`,
	}

	for _, sel := range selectors {
		if v := metaContent(doc, sel); v != "" {
			return v
		}
	}
	return ""
}

func extractThumbnail(doc *goquery.Document, pageURL *url.URL, info platform.Info) string {
	thumb := firstNonEmpty(
		metaContent(doc, `meta[property="og:image"]`),
		metaContent(doc, `meta[property="og:image:url"]`),
		metaContent(doc, `meta[property="og:image:secure_url"]`),
		metaContent(doc, `meta[name="twitter:image"]`),
		metaContent(doc, `meta[name="twitter:image:src"]`),
		attrValue(doc, `link[rel="image_src"]`, "href"),
		attrValue(doc, "img", "src"),
	)

	// Generic chain came up empty: fall through to platform-specific
	// heuristics tuned to each site's markup.
	if thumb == "" {
		thumb = extractPlatformThumbnail(doc, info)
	}

	return resolveRelative(thumb, pageURL)
}

// resolveRelative makes a thumbnail URL absolute against the page origin.
// Unresolvable values degrade to empty rather than failing the extraction.
func resolveRelative(thumb string, pageURL *url.URL) string {
	if thumb == "" || strings.HasPrefix(thumb, "http") || strings.HasPrefix(thumb, "data:") {
		return thumb
	}

	ref, err := url.Parse(thumb)
	if err != nil {
		return ""
	}
	return pageURL.ResolveReference(ref).String()
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func attrValue(doc *goquery.Document, selector, attr string) string {
	v, _ := doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
