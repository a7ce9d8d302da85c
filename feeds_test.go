package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maxnilz/coinreport/errors"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Crypto Wire</title>
    <link>https://example.com</link>
    <item>
      <title>Stablecoin issuer audited</title>
      <link>https://example.com/a</link>
      <pubDate>Fri, 01 Mar 2024 05:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Miner difficulty rises</title>
      <link>https://example.com/b</link>
      <pubDate>Fri, 01 Mar 2024 07:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Wallet release notes</title>
      <link>https://example.com/c</link>
      <pubDate>Fri, 01 Mar 2024 06:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSReaderCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	sources := []FeedSource{{Name: "Crypto Wire", URL: srv.URL, Limit: 2}}
	reader := NewFeedReader(sources, time.Second, VerboseLogger)

	articles, err := reader.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Most-recent-first, bounded by the source limit.
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Miner difficulty rises" || articles[1].Title != "Wallet release notes" {
		t.Errorf("unexpected order: %q, %q", articles[0].Title, articles[1].Title)
	}
	if articles[0].Source != "Crypto Wire" {
		t.Errorf("unexpected source: %q", articles[0].Source)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Error("expected a parsed publish time")
	}
}

func TestRSSReaderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	reader := NewFeedReader([]FeedSource{{Name: "Down", URL: srv.URL, Limit: 5}}, time.Second, VerboseLogger)

	_, err := reader.Collect(context.Background())
	if err == nil {
		t.Fatal("expected an error on http 502")
	}
	if got := errors.Code(err); got != errors.Unavailable {
		t.Errorf("expected Unavailable, got %v", got)
	}
}
