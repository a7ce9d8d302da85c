package main

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/shopspring/decimal"
)

// Article is one news item, either from the news API or an RSS source.
type Article struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
}

// AssetQuote is a 24-hour market snapshot for one tracked asset.
type AssetQuote struct {
	Symbol    string
	Price     decimal.Decimal
	Change24h decimal.Decimal
	Volume24h decimal.Decimal
}

// Report is the single email body produced per run. It is built completely
// before any delivery attempt.
type Report struct {
	Subject string
	Body    string // text/html
}

// BuildReport assembles the email body from the fetched sections. It is a
// pure function: same inputs, same Report. Empty sections render placeholder
// lines instead of failing.
func BuildReport(date time.Time, cryptoNews, politicalNews []Article, quotes []AssetQuote) Report {
	day := date.Format("2006-01-02")

	buf := bytes.Buffer{}
	buf.WriteString("<html><body>")
	buf.WriteString(fmt.Sprintf("<h2>Crypto Daily Report - %s</h2>", day))

	buf.WriteString("<h3>Market Summary</h3>")
	buf.WriteString("<table border=\"1\" cellpadding=\"5\">")
	buf.WriteString("<tr><th>Asset</th><th>Price (USD)</th><th>24h Change (%)</th><th>24h Volume</th></tr>")
	if len(quotes) == 0 {
		buf.WriteString("<tr><td colspan=\"4\">Market data unavailable.</td></tr>")
	}
	for _, q := range quotes {
		buf.WriteString("<tr>")
		buf.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(q.Symbol)))
		buf.WriteString(fmt.Sprintf("<td>$%s</td>", q.Price.StringFixed(2)))
		buf.WriteString(fmt.Sprintf("<td>%s%%</td>", q.Change24h.StringFixed(2)))
		buf.WriteString(fmt.Sprintf("<td>%s</td>", q.Volume24h.StringFixed(0)))
		buf.WriteString("</tr>")
	}
	buf.WriteString("</table>")

	writeArticles(&buf, "Crypto News", "No crypto news available.", cryptoNews)
	writeArticles(&buf, "Political News", "No political news available.", politicalNews)

	buf.WriteString("</body></html>")

	return Report{
		Subject: fmt.Sprintf("Crypto Report - %s", day),
		Body:    buf.String(),
	}
}

func writeArticles(buf *bytes.Buffer, heading, placeholder string, articles []Article) {
	buf.WriteString(fmt.Sprintf("<h3>%s</h3>", heading))
	if len(articles) == 0 {
		buf.WriteString(fmt.Sprintf("<p>%s</p>", placeholder))
		return
	}
	buf.WriteString("<ol>")
	for _, a := range articles {
		buf.WriteString("<li>")
		buf.WriteString(fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(a.URL), html.EscapeString(a.Title)))
		if !a.PublishedAt.IsZero() {
			buf.WriteString(fmt.Sprintf("&nbsp;%s", a.PublishedAt.Format("2006-01-02 15:04")))
		}
		if a.Source != "" {
			buf.WriteString(fmt.Sprintf("&nbsp;(%s)", html.EscapeString(a.Source)))
		}
		if a.Description != "" {
			buf.WriteString(fmt.Sprintf("<br><small>%s</small>", html.EscapeString(a.Description)))
		}
		buf.WriteString("</li>")
	}
	buf.WriteString("</ol>")
}
