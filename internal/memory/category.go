package memory

import "strings"

// Task categories used to cluster episodic records and to pick patterns.
const (
	CategorySocialMedia = "social_media"
	CategoryResearch    = "research"
	CategoryCoding      = "coding"
	CategoryGeneric     = "generic"
)

type categoryRule struct {
	category string
	keywords []string
}

// categoryRules are checked in order; the first bucket with a matching
// keyword wins.
//
//nolint:gochecknoglobals // Fixed rule table
var categoryRules = []categoryRule{
	{CategorySocialMedia, []string{"社交媒体", "内容", "social media", "content"}},
	{CategoryResearch, []string{"研究", "报告", "research", "report"}},
	{CategoryCoding, []string{"代码", "编程", "code", "programming"}},
}

// Categorize assigns a description to its keyword bucket.
func Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneric
}
