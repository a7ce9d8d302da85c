package main

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Worker is the daily report job: fetch the news sections and the market
// summary, build one Report, record the run and deliver it. A fetch failure
// degrades the affected section to empty; only delivery and ledger failures
// fail the run.
type Worker struct {
	storage Storage
	mailbox Mailbox
	news    NewsSource
	market  MarketSource
	feeds   FeedReader // optional, may be nil

	recipients []string
	logger     Logger
	now        func() time.Time
}

func NewWorker(cfg Config, storage Storage, mailbox Mailbox, news NewsSource, market MarketSource, feeds FeedReader, logger Logger) *Worker {
	return &Worker{
		storage:    storage,
		mailbox:    mailbox,
		news:       news,
		market:     market,
		feeds:      feeds,
		recipients: cfg.Recipients,
		logger:     logger,
		now:        time.Now,
	}
}

func (w *Worker) Name() string {
	return "report worker"
}

func (w *Worker) Run(ctx context.Context) error {
	run := &Run{Id: uuid.NewString(), StartedAt: w.now(), Status: RunRunning}

	ses, err := w.storage.NewAutoSession(ctx)
	if err != nil {
		return err
	}
	if last, lerr := w.storage.LastSuccessAt(ses); lerr == nil && !last.IsZero() {
		w.logger.Info("start run", "run", run.Id, "lastDelivered", last)
	} else {
		w.logger.Info("start run", "run", run.Id)
	}
	if err = w.storage.SaveRun(ses, run); err != nil {
		return err
	}

	cryptoNews := w.collectCryptoNews(ctx)
	politicalNews := w.collectPoliticalNews(ctx)
	quotes := w.collectQuotes(ctx)

	run.CryptoArticles = len(cryptoNews)
	run.PoliticalArticles = len(politicalNews)
	run.Assets = len(quotes)

	// The report is built completely before any delivery attempt so that a
	// failure never leaves a partially sent message behind.
	report := BuildReport(run.StartedAt, cryptoNews, politicalNews, quotes)

	if err = w.mailbox.Send(report, w.recipients); err != nil {
		run.Status, run.Error, run.FinishedAt = RunFailed, err.Error(), w.now()
		if ferr := w.finishRun(ctx, run); ferr != nil {
			w.logger.Error(ferr, "record failed run", "run", run.Id)
		}
		return err
	}

	run.Status, run.FinishedAt = RunDelivered, w.now()
	return w.finishRun(ctx, run)
}

// collectCryptoNews merges the news API section with the configured RSS
// sources. Either source failing degrades to whatever the other yielded.
func (w *Worker) collectCryptoNews(ctx context.Context) []Article {
	articles, err := w.news.CryptoNews(ctx)
	if err != nil {
		w.logger.Warn("fetch crypto news failed, section degraded", "cause", err)
		articles = nil
	}
	if w.feeds != nil {
		out, ferr := w.feeds.Collect(ctx)
		if ferr != nil {
			w.logger.Warn("collect feed articles failed, skipped", "cause", ferr)
		} else {
			articles = append(articles, out...)
		}
	}
	sortArticles(articles)
	return articles
}

func (w *Worker) collectPoliticalNews(ctx context.Context) []Article {
	articles, err := w.news.PoliticalNews(ctx)
	if err != nil {
		w.logger.Warn("fetch political news failed, section degraded", "cause", err)
		return nil
	}
	return articles
}

func (w *Worker) collectQuotes(ctx context.Context) []AssetQuote {
	quotes, err := w.market.Quotes(ctx)
	if err != nil {
		w.logger.Warn("fetch market summary failed, section degraded", "cause", err)
		return nil
	}
	return quotes
}

func (w *Worker) finishRun(ctx context.Context, run *Run) error {
	ses, err := w.storage.NewSession(ctx)
	if err != nil {
		return err
	}
	ses, err = ses.Begin()
	if err != nil {
		return err
	}
	defer ses.Rollback()

	if err = w.storage.FinishRun(ses, run); err != nil {
		return err
	}
	if err = ses.Commit(); err != nil {
		return err
	}
	w.logger.Info("finish run", "run", run.Id, "status", run.Status,
		"cryptoArticles", run.CryptoArticles, "politicalArticles", run.PoliticalArticles, "assets", run.Assets)
	return nil
}
