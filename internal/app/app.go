package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/deusflow/cyberdigest/internal/ai"
	"github.com/deusflow/cyberdigest/internal/config"
	"github.com/deusflow/cyberdigest/internal/digest"
	"github.com/deusflow/cyberdigest/internal/logger"
	"github.com/deusflow/cyberdigest/internal/mailer"
	"github.com/deusflow/cyberdigest/internal/metrics"
	"github.com/deusflow/cyberdigest/internal/news"
	"github.com/deusflow/cyberdigest/internal/rss"
	"github.com/deusflow/cyberdigest/internal/scraper"
)

// FeedFetcher returns all entries of the given feeds and the number of feeds that loaded.
type FeedFetcher interface {
	FetchAll(ctx context.Context, urls []string) ([]rss.Article, int)
}

type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) ai.Result
}

type Mailer interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// App is the fetch, filter, extract, summarize, compose, send pipeline.
type App struct {
	Feeds      []string
	Keywords   []string
	Fetcher    FeedFetcher
	Extractor  Extractor
	Summarizer Summarizer
	Composer   digest.Composer
	Mailer     Mailer
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// New wires the production components from cfg. The Summarizer degrades to
// placeholders when completer is nil.
func New(cfg *config.Config, completer ai.Completer) *App {
	return &App{
		Feeds:      cfg.Feeds,
		Keywords:   cfg.Keywords,
		Fetcher:    rss.NewFetcher(&http.Client{}, cfg.RequestTimeout),
		Extractor:  scraper.NewExtractor(nil),
		Summarizer: ai.NewSummarizer(completer, config.SummaryMaxTokens, config.SummaryTemperature),
		Composer:   digest.Composer{EscapeHTML: cfg.EscapeHTML},
		Mailer: mailer.New(mailer.Config{
			From:     cfg.SenderEmail,
			Password: cfg.SenderPassword,
			To:       cfg.RecipientEmail,
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
		}),
		Metrics: metrics.Global,
		Now:     time.Now,
	}
}

// RunOnce executes the whole pipeline. Every failure is handled locally.
func (a *App) RunOnce(ctx context.Context) {
	startTime := time.Now()
	clean := true
	a.Metrics.SetRunning(true)
	defer func() {
		a.Metrics.RecordProcessingTime(time.Since(startTime))
		a.Metrics.SetLastRun(clean)
		a.Metrics.SetRunning(false)
	}()

	logger.Info("running cybersecurity news digest")

	articles, ok := a.Fetcher.FetchAll(ctx, a.Feeds)
	a.Metrics.RecordFeeds(ok, len(a.Feeds), len(articles))

	relevant := news.Filter(articles, a.Keywords)
	a.Metrics.AddRelevant(len(relevant))
	logger.Info("found potentially relevant articles", "count", len(relevant))

	if len(relevant) == 0 {
		logger.Info("no relevant articles found, skipping email")
		a.Metrics.IncrementEmptyRuns()
		return
	}

	processed := make([]news.Processed, 0, len(relevant))
	for i, article := range relevant {
		logger.Info("processing", "n", i+1, "of", len(relevant), "title", article.Title)
		processed = append(processed, a.process(ctx, article))
	}

	body := a.Composer.Compose(processed, a.Now())

	if err := a.Mailer.Send(ctx, digest.Subject, body); err != nil {
		if !errors.Is(err, mailer.ErrNotConfigured) {
			a.Metrics.IncrementEmailsFailed()
			a.Metrics.SetError(err.Error())
			clean = false
		}
	} else {
		a.Metrics.IncrementEmailsSent()
	}

	logger.Info("cybersecurity news digest run complete", "articles", len(processed))
}

func (a *App) process(ctx context.Context, article rss.Article) news.Processed {
	text, err := a.Extractor.Extract(ctx, article.Link)
	if err != nil {
		logger.Warn("full text unavailable, using feed summary", "url", article.Link, "err", err)
		a.Metrics.IncrementExtractionFailures()
		text = article.Summary
	}

	res := a.Summarizer.Summarize(ctx, text)
	switch res.Status {
	case ai.StatusOK:
		a.Metrics.IncrementSummariesGenerated()
	case ai.StatusSkipped:
		a.Metrics.IncrementSummariesSkipped()
	case ai.StatusFailed:
		a.Metrics.IncrementSummariesFailed()
	}

	return news.NewProcessed(article, res.Text, a.Keywords)
}
