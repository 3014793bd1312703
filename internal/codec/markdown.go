package codec

import (
	"fmt"
	"strings"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

// exportMarkdown renders one "##" section per category with a "###"
// entry per bookmark.
func exportMarkdown(bookmarks []models.Bookmark, now time.Time) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# My Bookmarks\n\nExported on %s\n\n", now.Format("2006-01-02"))

	for _, group := range groupByCategory(bookmarks) {
		fmt.Fprintf(&sb, "## %s\n\n", group.category)

		for _, b := range group.bookmarks {
			fmt.Fprintf(&sb, "### [%s](%s)\n\n", displayTitle(b), b.URL)

			if b.Description != "" {
				fmt.Fprintf(&sb, "%s\n\n", b.Description)
			}
			if len(b.Tags) > 0 {
				fmt.Fprintf(&sb, "**Tags:** %s\n\n", strings.Join(b.Tags, ", "))
			}

			platformName := b.Platform
			if platformName == "" {
				platformName = "Web"
			}
			fmt.Fprintf(&sb, "**Platform:** %s | **Saved:** %s\n\n---\n\n",
				platformName, b.CreatedAt.Format("2006-01-02"))
		}
	}

	return []byte(sb.String())
}
