// Package codec converts bookmarks to and from their interchange formats:
// JSON, CSV, Netscape bookmark HTML, and Markdown.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

// Format names a supported interchange format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format string from a query parameter or form
// field. Empty defaults to JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatHTML, FormatMarkdown:
		return Format(s), nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// File is a rendered export ready to serve as a download.
type File struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Export renders bookmarks in the given format. The now parameter feeds
// the dated filename and the Markdown header.
func Export(bookmarks []models.Bookmark, format Format, now time.Time) (File, error) {
	date := now.Format("2006-01-02")

	switch format {
	case FormatCSV:
		return File{
			Content:     exportCSV(bookmarks),
			ContentType: "text/csv",
			Filename:    "bookmarks_" + date + ".csv",
		}, nil
	case FormatHTML:
		return File{
			Content:     exportHTML(bookmarks),
			ContentType: "text/html",
			Filename:    "bookmarks_" + date + ".html",
		}, nil
	case FormatMarkdown:
		return File{
			Content:     exportMarkdown(bookmarks, now),
			ContentType: "text/markdown",
			Filename:    "bookmarks_" + date + ".md",
		}, nil
	case FormatJSON:
		content, err := json.MarshalIndent(bookmarks, "", "  ")
		if err != nil {
			return File{}, fmt.Errorf("marshal bookmarks: %w", err)
		}
		return File{
			Content:     content,
			ContentType: "application/json",
			Filename:    "bookmarks_" + date + ".json",
		}, nil
	default:
		return File{}, fmt.Errorf("unsupported format %q", format)
	}
}

// categoryGroup pairs a category with its bookmarks, preserving the order
// categories first appear in the input.
type categoryGroup struct {
	category  string
	bookmarks []models.Bookmark
}

func groupByCategory(bookmarks []models.Bookmark) []categoryGroup {
	index := map[string]int{}
	var groups []categoryGroup

	for _, b := range bookmarks {
		category := b.Category
		if category == "" {
			category = "Uncategorized"
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, categoryGroup{category: category})
		}
		groups[i].bookmarks = append(groups[i].bookmarks, b)
	}

	return groups
}

func displayTitle(b models.Bookmark) string {
	if b.Title == "" {
		return "Untitled"
	}
	return b.Title
}
