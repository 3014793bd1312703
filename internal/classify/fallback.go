package classify

import (
	"regexp"
	"strings"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

// fallbackRules are checked in order against the lowercased concatenation
// of url, title and description; the first match wins. Each rule carries
// the fixed tags returned when it fires.
var fallbackRules = []struct {
	pattern  *regexp.Regexp
	category string
	tags     []string
}{
	{
		pattern:  regexp.MustCompile(`youtube|video|tutorial|learn|course|react|javascript|coding|programming|tech`),
		category: models.CategoryLearningTech,
		tags:     []string{"tutorial", "learning"},
	},
	{
		pattern:  regexp.MustCompile(`tool|ai|software|app|resource|utility`),
		category: models.CategoryTools,
		tags:     []string{"tool", "productivity"},
	},
	{
		pattern:  regexp.MustCompile(`health|fitness|workout|exercise|gym|wellness`),
		category: models.CategoryHealth,
		tags:     []string{"health", "fitness"},
	},
	{
		pattern:  regexp.MustCompile(`food|recipe|restaurant|travel|vacation|hotel`),
		category: models.CategoryFoodTravel,
		tags:     []string{"food", "lifestyle"},
	},
	{
		pattern:  regexp.MustCompile(`tiktok|douyin|entertainment|music|game|movie|fun`),
		category: models.CategoryEntertainment,
		tags:     []string{"entertainment", "fun"},
	},
}

// Fallback is the deterministic keyword classifier. Always returns a
// taxonomy category; no match means "Other" with no tags.
func Fallback(in Input) models.Classification {
	content := strings.ToLower(in.URL + " " + in.Title + " " + in.Description)

	for _, rule := range fallbackRules {
		if rule.pattern.MatchString(content) {
			return models.Classification{
				Category: rule.category,
				Tags:     append([]string(nil), rule.tags...),
			}
		}
	}

	return models.Classification{Category: models.CategoryOther, Tags: []string{}}
}
