package codec

import (
	"encoding/json"
	"fmt"
)

// Record is one candidate bookmark parsed from an import file. Only URL
// is required; missing category/tags get classified downstream.
type Record struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Platform    string   `json:"platform,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

// Parse converts an uploaded file into candidate records for the declared
// format.
func Parse(content []byte, format Format) ([]Record, error) {
	switch format {
	case FormatCSV:
		return parseCSV(string(content)), nil
	case FormatHTML:
		return parseHTML(string(content))
	case FormatJSON:
		var records []Record
		if err := json.Unmarshal(content, &records); err != nil {
			return nil, fmt.Errorf("parse bookmark json: %w", err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}
