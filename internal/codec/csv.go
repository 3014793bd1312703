package codec

import (
	"strings"
	"time"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

// csvHeaders is the fixed column layout. Tags are joined by ";" inside a
// single column so the row shape stays constant.
var csvHeaders = []string{
	"ID", "Title", "URL", "Description", "Category",
	"Tags", "Platform", "Thumbnail", "Created At",
}

func exportCSV(bookmarks []models.Bookmark) []byte {
	var sb strings.Builder
	sb.WriteString(strings.Join(csvHeaders, ","))

	for _, b := range bookmarks {
		category := b.Category
		if category == "" {
			category = "Uncategorized"
		}

		row := []string{
			b.ID,
			displayTitle(b),
			b.URL,
			b.Description,
			category,
			strings.Join(b.Tags, ";"),
			b.Platform,
			b.Thumbnail,
			b.CreatedAt.UTC().Format(time.RFC3339),
		}

		sb.WriteByte('\n')
		for i, field := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(escapeCSVField(field))
		}
	}

	return []byte(sb.String())
}

// escapeCSVField quotes a field only when it needs it, doubling embedded
// quotes.
func escapeCSVField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// parseCSV scans the document character by character so quoted fields may
// hold embedded commas, newlines and doubled quotes. encoding/csv would
// also work here, but browser and spreadsheet exports are loose about
// quoting mid-field, which the stdlib reader rejects; the scanner accepts
// them the way the rest of the ecosystem does.
func parseCSV(content string) []Record {
	rows := scanCSV(content)
	if len(rows) < 2 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []Record
	for _, row := range rows[1:] {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		var r Record
		for i, header := range headers {
			if i >= len(row) {
				break
			}
			value := strings.TrimSpace(row[i])

			switch header {
			case "title":
				r.Title = value
			case "url":
				r.URL = value
			case "description":
				r.Description = value
			case "category":
				r.Category = value
			case "tags":
				if value != "" {
					for _, t := range strings.Split(value, ";") {
						if t = strings.TrimSpace(t); t != "" {
							r.Tags = append(r.Tags, t)
						}
					}
				}
			case "platform":
				r.Platform = value
			case "thumbnail":
				r.Thumbnail = value
			}
		}

		if r.URL != "" {
			records = append(records, r)
		}
	}

	return records
}

// scanCSV splits content into rows of fields. A quote toggles quoted
// mode; a doubled quote inside quoted mode is a literal quote.
func scanCSV(content string) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			endField()
		case ch == '\n' && !inQuotes:
			endRow()
		case ch == '\r' && !inQuotes:
			// swallow CR in CRLF line endings
		default:
			field.WriteRune(ch)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return rows
}
