package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildReportDeterministic(t *testing.T) {
	date := mustParseTime("2024-03-01 08:00:00")
	crypto := []Article{
		{Title: "Bitcoin hits new high", URL: "https://example.com/1", Source: "Example", PublishedAt: mustParseTime("2024-03-01 07:00:00")},
	}
	political := []Article{
		{Title: "Senate debates crypto bill", URL: "https://example.com/2", Source: "Example", PublishedAt: mustParseTime("2024-03-01 06:00:00")},
	}
	quotes := []AssetQuote{
		{Symbol: "BTC", Price: decimal.NewFromFloat(64250.12), Change24h: decimal.NewFromFloat(-1.53), Volume24h: decimal.NewFromInt(1200000)},
	}

	first := BuildReport(date, crypto, political, quotes)
	second := BuildReport(date, crypto, political, quotes)
	if first != second {
		t.Fatal("same inputs must produce the same report")
	}
	if first.Subject != "Crypto Report - 2024-03-01" {
		t.Errorf("unexpected subject: %q", first.Subject)
	}
}

func TestBuildReportEmptySections(t *testing.T) {
	report := BuildReport(mustParseTime("2024-03-01 08:00:00"), nil, nil, nil)
	for _, want := range []string{
		"Crypto Daily Report - 2024-03-01",
		"No crypto news available.",
		"No political news available.",
		"Market data unavailable.",
	} {
		if !strings.Contains(report.Body, want) {
			t.Errorf("report body missing %q", want)
		}
	}
}

func TestBuildReportEscapesFetchedText(t *testing.T) {
	crypto := []Article{
		{
			Title:       "<script>alert(1)</script>",
			Description: "a & b",
			URL:         `https://example.com/?q="x"`,
			Source:      "Ex<ample",
		},
	}
	report := BuildReport(mustParseTime("2024-03-01 08:00:00"), crypto, nil, nil)
	if strings.Contains(report.Body, "<script>") {
		t.Error("article title must be escaped")
	}
	for _, want := range []string{"&lt;script&gt;", "a &amp; b", "Ex&lt;ample"} {
		if !strings.Contains(report.Body, want) {
			t.Errorf("report body missing escaped text %q", want)
		}
	}
}
