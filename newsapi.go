package main

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/maxnilz/coinreport/errors"
)

// NewsSource yields the two article sections of a report,
// most-recent-first.
type NewsSource interface {
	CryptoNews(ctx context.Context) ([]Article, error)
	PoliticalNews(ctx context.Context) ([]Article, error)
}

func NewNewsAPIClient(cfg NewsAPIConfig, timeout time.Duration, logger Logger) *NewsAPIClient {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(timeout)
	client.SetHeader("X-Api-Key", cfg.APIKey)
	return &NewsAPIClient{client: client, cfg: cfg, logger: logger}
}

type NewsAPIClient struct {
	client *resty.Client
	cfg    NewsAPIConfig
	logger Logger
}

var _ NewsSource = (*NewsAPIClient)(nil)

func (c *NewsAPIClient) CryptoNews(ctx context.Context) ([]Article, error) {
	return c.everything(ctx, c.cfg.CryptoQuery, c.cfg.CryptoPageSize)
}

func (c *NewsAPIClient) PoliticalNews(ctx context.Context) ([]Article, error) {
	return c.everything(ctx, c.cfg.PoliticalQuery, c.cfg.PoliticalPageSize)
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (c *NewsAPIClient) everything(ctx context.Context, query string, pageSize int) ([]Article, error) {
	var out newsAPIResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"language": c.cfg.Language,
			"sortBy":   "publishedAt",
			"pageSize": strconv.Itoa(pageSize),
		}).
		SetResult(&out).
		Get("/everything")
	if err != nil {
		return nil, errors.Newf(errors.Unavailable, err, "request news for %q failed", query)
	}
	if resp.IsError() {
		return nil, errors.Newf(errors.Unavailable, nil, "invalid news response: %v", resp.Status())
	}
	if out.Status != "ok" {
		return nil, errors.Newf(errors.Internal, nil, "news api rejected query %q: %s", query, out.Message)
	}

	articles := make([]Article, 0, len(out.Articles))
	for _, it := range out.Articles {
		publishedAt, perr := time.Parse(time.RFC3339, it.PublishedAt)
		if perr != nil {
			c.logger.Debug("skip article timestamp", "publishedAt", it.PublishedAt)
		}
		articles = append(articles, Article{
			Title:       it.Title,
			Description: it.Description,
			URL:         it.URL,
			Source:      it.Source.Name,
			PublishedAt: publishedAt,
		})
	}
	sortArticles(articles)
	if len(articles) > pageSize {
		articles = articles[:pageSize]
	}
	return articles, nil
}

// sortArticles orders most-recent-first, keeping the upstream order for
// equal or missing timestamps.
func sortArticles(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}
