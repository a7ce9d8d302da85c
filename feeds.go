package main

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/maxnilz/coinreport/errors"
	"github.com/mmcdole/gofeed"
)

// FeedReader collects articles from configured RSS/Atom sources. They
// supplement the news API section of the report.
type FeedReader interface {
	Collect(ctx context.Context) ([]Article, error)
}

func NewFeedReader(sources []FeedSource, timeout time.Duration, logger Logger) *RSSReader {
	client := resty.New()
	client.SetTimeout(timeout)
	return &RSSReader{
		client:  client,
		sources: sources,
		fp:      gofeed.NewParser(),
		logger:  logger,
	}
}

type RSSReader struct {
	client  *resty.Client
	sources []FeedSource
	fp      *gofeed.Parser
	logger  Logger
}

var _ FeedReader = (*RSSReader)(nil)

func (r *RSSReader) Collect(ctx context.Context) ([]Article, error) {
	var articles []Article
	for _, source := range r.sources {
		out, err := r.collectSource(ctx, source)
		if err != nil {
			return nil, err
		}
		articles = append(articles, out...)
	}
	return articles, nil
}

func (r *RSSReader) collectSource(ctx context.Context, source FeedSource) ([]Article, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(source.URL)
	if err != nil {
		return nil, errors.Newf(errors.Unavailable, err, "request feed %v failed", source.URL)
	}
	defer resp.RawBody().Close()
	if resp.IsError() {
		return nil, errors.Newf(errors.Unavailable, nil, "invalid feed response from %v: %v", source.URL, resp.Status())
	}

	feed, err := r.fp.Parse(resp.RawBody())
	if err != nil {
		return nil, errors.Newf(errors.Internal, err, "parse feed at %v failed", source.URL)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		var publishedAt time.Time
		if it.PublishedParsed != nil {
			publishedAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			publishedAt = *it.UpdatedParsed
		}
		articles = append(articles, Article{
			Title:       it.Title,
			Description: it.Description,
			URL:         it.Link,
			Source:      source.Name,
			PublishedAt: publishedAt,
		})
	}
	sortArticles(articles)
	if source.Limit > 0 && len(articles) > source.Limit {
		articles = articles[:source.Limit]
	}
	r.logger.Debug("collected feed articles", "source", source.Name, "count", len(articles))
	return articles, nil
}
