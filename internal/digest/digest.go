// Package digest renders processed articles as one HTML email body.
package digest

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/deusflow/cyberdigest/internal/news"
)

// Subject of every digest email.
const Subject = "Your Daily Cybersecurity News Digest"

const timestampLayout = "2006-01-02 15:04 MST"

// Composer builds the digest. Article text is interpolated verbatim unless
// EscapeHTML is set.
type Composer struct {
	EscapeHTML bool
}

func (c Composer) text(s string) string {
	if c.EscapeHTML {
		return html.EscapeString(s)
	}
	return s
}

// Compose renders articles in order under a heading stamped with at.
func (c Composer) Compose(articles []news.Processed, at time.Time) string {
	var b strings.Builder

	b.WriteString("<html>\n<head></head>\n<body>\n")
	b.WriteString(fmt.Sprintf("<h2>Latest Cybersecurity News Updates (%s)</h2>\n", at.Format(timestampLayout)))
	b.WriteString("<p>Here's a digest of the latest in the cybersecurity industry:</p>\n")
	b.WriteString("<ul>\n")

	for _, a := range articles {
		b.WriteString(c.formatArticle(a))
	}

	b.WriteString("</ul>\n")
	b.WriteString("<p>Stay secure!</p>\n")
	b.WriteString("<p>This email was generated by your Cybersecurity News AI Agent.</p>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

func (c Composer) formatArticle(a news.Processed) string {
	var b strings.Builder

	keywords := make([]string, len(a.Keywords))
	for i, k := range a.Keywords {
		keywords[i] = c.text(k)
	}

	b.WriteString("<li>\n")
	b.WriteString(fmt.Sprintf("<h3><a href=\"%s\">%s</a></h3>\n", c.text(a.Link), c.text(a.Title)))
	b.WriteString(fmt.Sprintf("<p><strong>Summary:</strong> %s</p>\n", c.text(a.Summary)))
	b.WriteString(fmt.Sprintf("<p><strong>Keywords:</strong> %s</p>\n", strings.Join(keywords, ", ")))
	b.WriteString(fmt.Sprintf("<p><small>Published: %s</small></p>\n", c.text(a.Published)))
	b.WriteString("</li>\n")
	b.WriteString("<hr>\n")

	return b.String()
}
