package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/cyberdigest/internal/rss"
)

// PageTimeout bounds a single article page fetch.
const PageTimeout = 10 * time.Second

// contentSelector lists the structural tags whose text makes up an article.
const contentSelector = "p, div, article, main"

var (
	// ErrFetch means the page could not be downloaded or answered with a non-2xx status.
	ErrFetch = errors.New("fetch failed")
	// ErrParse means the page was downloaded but yielded no readable text.
	ErrParse = errors.New("parse failed")
)

// Extractor pulls readable text out of article pages.
type Extractor struct {
	client *http.Client
}

func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	c.Timeout = PageTimeout
	return &Extractor{client: &c}
}

// Extract gets the full text of the article at url. Errors wrap ErrFetch or ErrParse.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", rss.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP status %d", ErrFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	text := ExtractText(doc)
	if text == "" {
		return "", fmt.Errorf("%w: no text in %s", ErrParse, contentSelector)
	}
	return text, nil
}

// ExtractText joins the text of every content element, in document order,
// and collapses whitespace runs to single spaces. Nested elements repeat
// their text once per matching ancestor.
func ExtractText(doc *goquery.Document) string {
	var parts []string
	doc.Find(contentSelector).Each(func(i int, s *goquery.Selection) {
		if text := s.Text(); text != "" {
			parts = append(parts, text)
		}
	})
	return cleanContent(strings.Join(parts, " "))
}

func cleanContent(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
