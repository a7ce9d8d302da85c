package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxnilz/coinreport/errors"
)

const newsAPIFixture = `{
  "status": "ok",
  "totalResults": 3,
  "articles": [
    {
      "source": {"id": null, "name": "Example"},
      "title": "Older story",
      "description": "older",
      "url": "https://example.com/older",
      "publishedAt": "2024-03-01T05:00:00Z"
    },
    {
      "source": {"id": null, "name": "Example"},
      "title": "Newest story",
      "description": "newest",
      "url": "https://example.com/newest",
      "publishedAt": "2024-03-01T07:00:00Z"
    },
    {
      "source": {"id": null, "name": "Example"},
      "title": "Middle story",
      "description": "middle",
      "url": "https://example.com/middle",
      "publishedAt": "2024-03-01T06:00:00Z"
    }
  ]
}`

func newsTestClient(t *testing.T, handler http.HandlerFunc) *NewsAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := NewsAPIConfig{
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		Language:          "en",
		CryptoQuery:       "cryptocurrency OR bitcoin OR ethereum",
		PoliticalQuery:    "(regulation OR policy) AND crypto",
		CryptoPageSize:    2,
		PoliticalPageSize: 5,
	}
	return NewNewsAPIClient(cfg, time.Second, VerboseLogger)
}

func TestNewsAPICryptoNews(t *testing.T) {
	var gotQuery, gotKey string
	client := newsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(newsAPIFixture))
	})

	articles, err := client.CryptoNews(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "cryptocurrency OR bitcoin OR ethereum" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("unexpected api key header: %q", gotKey)
	}
	// Most-recent-first, bounded by the configured page size.
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Newest story" || articles[1].Title != "Middle story" {
		t.Errorf("unexpected order: %q, %q", articles[0].Title, articles[1].Title)
	}
	if articles[0].Source != "Example" {
		t.Errorf("unexpected source: %q", articles[0].Source)
	}
}

func TestNewsAPIServerError(t *testing.T) {
	client := newsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CryptoNews(context.Background())
	if err == nil {
		t.Fatal("expected an error on http 500")
	}
	if got := errors.Code(err); got != errors.Unavailable {
		t.Errorf("expected Unavailable, got %v", got)
	}
}

func TestNewsAPIRejectedQuery(t *testing.T) {
	client := newsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "error", "code": "apiKeyInvalid", "message": "bad key"}`))
	})

	_, err := client.PoliticalNews(context.Background())
	if err == nil {
		t.Fatal("expected an error on an api-level rejection")
	}
	if got := errors.Code(err); got != errors.Internal {
		t.Errorf("expected Internal, got %v", got)
	}
}

func TestValidateFailsBeforeAnyRequest(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	config := Config{
		DSN:        "sqlite://runs.db",
		NewsAPI:    NewsAPIConfig{BaseURL: srv.URL}, // api key missing
		Market:     MarketConfig{BaseURL: srv.URL},
		MailSender: MailSender{SenderAddr: "s@example.com", Password: "secret"},
		Recipients: []string{"r@example.com"},
	}
	config.ApplyDefaults()

	err := config.Validate()
	if err == nil {
		t.Fatal("expected validation to fail on a missing api key")
	}
	if got := errors.Code(err); got != errors.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", got)
	}
	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("expected zero http calls before validation, got %d", n)
	}
}
