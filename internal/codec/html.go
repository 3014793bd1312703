package codec

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/platform"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// exportHTML renders the Netscape bookmark-file format browsers accept on
// import, one folder per category.
func exportHTML(bookmarks []models.Bookmark) []byte {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file. -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
`)

	for _, group := range groupByCategory(bookmarks) {
		fmt.Fprintf(&sb, "    <DT><H3>%s</H3>\n    <DL><p>\n", htmlEscaper.Replace(group.category))

		for _, b := range group.bookmarks {
			fmt.Fprintf(&sb, `        <DT><A HREF="%s" ADD_DATE="%d"`,
				htmlEscaper.Replace(b.URL), b.CreatedAt.Unix())
			if b.Thumbnail != "" {
				fmt.Fprintf(&sb, ` ICON="%s"`, htmlEscaper.Replace(b.Thumbnail))
			}
			fmt.Fprintf(&sb, ">%s</A>\n", htmlEscaper.Replace(displayTitle(b)))

			if b.Description != "" {
				fmt.Fprintf(&sb, "        <DD>%s\n", htmlEscaper.Replace(b.Description))
			}
		}

		sb.WriteString("    </DL><p>\n")
	}

	sb.WriteString("</DL><p>")
	return []byte(sb.String())
}

// parseHTML walks browser bookmark markup. An H3 inside a DT names the
// folder that becomes the category for every following bookmark until the
// next H3; an A inside a DT is a bookmark, with the adjacent DD as its
// description.
func parseHTML(content string) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse bookmark html: %w", err)
	}

	currentCategory := "Uncategorized"
	var records []Record

	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		if h3 := dt.Find("h3").First(); h3.Length() > 0 {
			if name := strings.TrimSpace(h3.Text()); name != "" {
				currentCategory = name
			}
			return
		}

		a := dt.Find("a").First()
		if a.Length() == 0 {
			return
		}
		href, _ := a.Attr("href")
		if href == "" {
			return
		}

		title := strings.TrimSpace(a.Text())
		if title == "" {
			title = href
		}

		description := ""
		if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
			description = strings.TrimSpace(dd.Text())
		}

		icon, _ := a.Attr("icon")

		records = append(records, Record{
			URL:         href,
			Title:       title,
			Description: description,
			Category:    currentCategory,
			Platform:    platform.FromURL(href).Name,
			Thumbnail:   icon,
		})
	})

	return records, nil
}
