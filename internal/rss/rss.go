package rss

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/cyberdigest/internal/logger"
)

// Placeholders used when a feed entry omits a field.
const (
	NoTitle = "No Title"
	NoLink  = "#"
	NoDate  = "No Date"
)

// UserAgent is a browser-like identification some feeds and sites require.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// Article is one feed entry as published by its source.
type Article struct {
	Title     string
	Link      string
	Summary   string
	Published string
}

// Fetcher downloads and parses RSS/Atom feeds sequentially.
type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFetcher(client *http.Client, timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = UserAgent
	if client != nil {
		parser.Client = client
	}
	return &Fetcher{parser: parser, timeout: timeout}
}

// FetchAll downloads every feed in order. A feed that cannot be fetched
// or parsed is logged and skipped.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]Article, int) {
	var all []Article
	successCount := 0

	for _, url := range urls {
		items, err := f.fetch(ctx, url)
		if err != nil {
			logger.Warn("feed failed, skipping", "url", url, "err", err)
			continue
		}
		for _, item := range items {
			all = append(all, fromItem(item))
		}
		successCount++
		logger.Info("loaded feed", "url", url, "entries", len(items))
	}

	logger.Info("processed feeds", "ok", successCount, "total", len(urls), "entries", len(all))
	return all, successCount
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]*gofeed.Item, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}
	return feed.Items, nil
}

func fromItem(item *gofeed.Item) Article {
	a := Article{
		Title:     NoTitle,
		Link:      NoLink,
		Summary:   item.Description,
		Published: NoDate,
	}
	if item.Title != "" {
		a.Title = item.Title
	}
	if link := strings.TrimSpace(item.Link); link != "" {
		a.Link = link
	}
	if item.Published != "" {
		a.Published = item.Published
	}
	return a
}
