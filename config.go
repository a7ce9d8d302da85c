package main

import (
	"os"
	"time"

	"github.com/maxnilz/coinreport/errors"
)

type Config struct {
	DSN      string `yaml:"dsn"`
	Schedule string `yaml:"schedule"`

	NewsAPI    NewsAPIConfig `yaml:"newsAPI"`
	Market     MarketConfig  `yaml:"market"`
	Feeds      []FeedSource  `yaml:"feeds"`
	MailSender MailSender    `yaml:"mailSender"`
	Recipients []string      `yaml:"recipients"`

	HTTPTimeout time.Duration `yaml:"httpTimeout"`
}

type NewsAPIConfig struct {
	BaseURL  string `yaml:"baseURL"`
	APIKey   string `yaml:"apiKey"`
	Language string `yaml:"language"`

	CryptoQuery    string `yaml:"cryptoQuery"`
	PoliticalQuery string `yaml:"politicalQuery"`

	CryptoPageSize    int `yaml:"cryptoPageSize"`
	PoliticalPageSize int `yaml:"politicalPageSize"`
}

type MarketConfig struct {
	BaseURL    string   `yaml:"baseURL"`
	Assets     []string `yaml:"assets"`
	VsCurrency string   `yaml:"vsCurrency"`
}

type FeedSource struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Limit int    `yaml:"limit"`
}

type MailSender struct {
	SmtpServer string `yaml:"smtpServer"`
	SenderAddr string `yaml:"senderAddr"`
	Password   string `yaml:"password"`
}

// ApplyDefaults fills the optional knobs that have a sensible service-level
// default. Credentials never default.
func (c *Config) ApplyDefaults() {
	if c.Schedule == "" {
		c.Schedule = "0 8 * * *"
	}
	if c.NewsAPI.BaseURL == "" {
		c.NewsAPI.BaseURL = "https://newsapi.org/v2"
	}
	if c.NewsAPI.Language == "" {
		c.NewsAPI.Language = "en"
	}
	if c.NewsAPI.CryptoQuery == "" {
		c.NewsAPI.CryptoQuery = "cryptocurrency OR bitcoin OR ethereum"
	}
	if c.NewsAPI.PoliticalQuery == "" {
		c.NewsAPI.PoliticalQuery = "(regulation OR policy OR government) AND (cryptocurrency OR bitcoin OR crypto)"
	}
	if c.NewsAPI.CryptoPageSize == 0 {
		c.NewsAPI.CryptoPageSize = 10
	}
	if c.NewsAPI.PoliticalPageSize == 0 {
		c.NewsAPI.PoliticalPageSize = 5
	}
	if c.Market.BaseURL == "" {
		c.Market.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if len(c.Market.Assets) == 0 {
		c.Market.Assets = []string{"bitcoin", "ethereum", "celestia", "solana"}
	}
	if c.Market.VsCurrency == "" {
		c.Market.VsCurrency = "usd"
	}
	if c.MailSender.SmtpServer == "" {
		c.MailSender.SmtpServer = "smtp.gmail.com:587"
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	for i := range c.Feeds {
		if c.Feeds[i].Limit == 0 {
			c.Feeds[i].Limit = 5
		}
	}
}

// LoadEnv overlays credentials from the environment on top of the file
// values. Environment wins so that CI secret stores can inject them without
// touching the config file.
func (c *Config) LoadEnv() {
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.NewsAPI.APIKey = v
	}
	if v := os.Getenv("EMAIL_SENDER"); v != "" {
		c.MailSender.SenderAddr = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		c.MailSender.Password = v
	}
	if v := os.Getenv("EMAIL_RECIPIENT"); v != "" {
		c.Recipients = append([]string{v}, c.Recipients...)
	}
	if v := os.Getenv("EMAIL_RECIPIENT2"); v != "" {
		c.Recipients = append(c.Recipients, v)
	}
}

// Validate checks the required keys. It is called before any client is
// constructed so that a bad config never reaches the network.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return errors.Newf(errors.InvalidArgument, nil, "missing dsn")
	}
	if c.NewsAPI.APIKey == "" {
		return errors.Newf(errors.InvalidArgument, nil, "missing news api key")
	}
	if c.MailSender.SenderAddr == "" {
		return errors.Newf(errors.InvalidArgument, nil, "missing mail sender address")
	}
	if c.MailSender.Password == "" {
		return errors.Newf(errors.InvalidArgument, nil, "missing mail sender password")
	}
	if len(c.Recipients) == 0 {
		return errors.Newf(errors.InvalidArgument, nil, "missing recipients")
	}
	return nil
}
