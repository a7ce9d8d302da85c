package main

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/maxnilz/coinreport/errors"
	"github.com/shopspring/decimal"
)

// MarketSource yields one quote per tracked asset for the trailing 24h
// window.
type MarketSource interface {
	Quotes(ctx context.Context) ([]AssetQuote, error)
}

func NewCoinGeckoClient(cfg MarketConfig, timeout time.Duration, logger Logger) *CoinGeckoClient {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(timeout)
	return &CoinGeckoClient{client: client, cfg: cfg, logger: logger}
}

type CoinGeckoClient struct {
	client *resty.Client
	cfg    MarketConfig
	logger Logger
}

var _ MarketSource = (*CoinGeckoClient)(nil)

func (c *CoinGeckoClient) Quotes(ctx context.Context) ([]AssetQuote, error) {
	out := map[string]map[string]decimal.Decimal{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":                 strings.Join(c.cfg.Assets, ","),
			"vs_currencies":       c.cfg.VsCurrency,
			"include_24hr_change": "true",
			"include_24hr_vol":    "true",
		}).
		SetResult(&out).
		Get("/simple/price")
	if err != nil {
		return nil, errors.Newf(errors.Unavailable, err, "request market summary failed")
	}
	if resp.IsError() {
		return nil, errors.Newf(errors.Unavailable, nil, "invalid market response: %v", resp.Status())
	}

	cur := c.cfg.VsCurrency
	quotes := make([]AssetQuote, 0, len(c.cfg.Assets))
	for _, asset := range c.cfg.Assets {
		figures, ok := out[asset]
		if !ok {
			c.logger.Warn("no market data for asset", "asset", asset)
			continue
		}
		quotes = append(quotes, AssetQuote{
			Symbol:    strings.ToUpper(asset),
			Price:     figures[cur],
			Change24h: figures[cur+"_24h_change"],
			Volume24h: figures[cur+"_24h_vol"],
		})
	}
	return quotes, nil
}
