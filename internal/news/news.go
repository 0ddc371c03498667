package news

import (
	"strings"

	"github.com/deusflow/cyberdigest/internal/rss"
)

// DefaultKeyword labels an article whose summary mentions none of the keywords.
const DefaultKeyword = "General Cybersecurity"

// Processed is an article ready for the digest.
type Processed struct {
	Title     string
	Link      string
	Summary   string
	Keywords  []string
	Published string
}

// containsAny is a case-insensitive substring test; "hack" matches "hacker".
func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		k = strings.ToLower(k)
		if k == "" {
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Filter keeps articles whose title or feed summary contains a keyword, in input order.
func Filter(articles []rss.Article, keywords []string) []rss.Article {
	var out []rss.Article
	for _, a := range articles {
		if containsAny(a.Title, keywords) || containsAny(a.Summary, keywords) {
			out = append(out, a)
		}
	}
	return out
}

// MatchKeywords returns the keywords found in text, in keyword order and
// without duplicates, or DefaultKeyword when none match.
func MatchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(keywords))
	var found []string
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		if strings.Contains(lower, strings.ToLower(k)) {
			seen[k] = struct{}{}
			found = append(found, k)
		}
	}
	if len(found) == 0 {
		return []string{DefaultKeyword}
	}
	return found
}

// NewProcessed combines a feed article with its summary.
func NewProcessed(a rss.Article, summary string, keywords []string) Processed {
	return Processed{
		Title:     a.Title,
		Link:      a.Link,
		Summary:   summary,
		Keywords:  MatchKeywords(summary, keywords),
		Published: a.Published,
	}
}
