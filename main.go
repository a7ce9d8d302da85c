package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func main() {
	var configFile string
	var verbose, once bool
	flag.StringVar(&configFile, "config", "", "configuration file")
	flag.BoolVar(&verbose, "verbose", false, "verbose log")
	flag.BoolVar(&once, "once", false, "build and send one report, then exit")
	flag.Parse()
	if configFile == "" {
		log.Fatal("config file is missing")
	}

	// Credentials may live in a local .env during development; scheduled
	// environments inject them directly.
	_ = godotenv.Load()

	f, err := os.Open(configFile)
	if err != nil {
		log.Fatalf("open %s failed", configFile)
	}
	defer f.Close()

	var config Config
	dec := yaml.NewDecoder(f)
	if err = dec.Decode(&config); err != nil {
		log.Fatalf("invalid config file: %v", err)
	}
	config.ApplyDefaults()
	config.LoadEnv()
	if err = config.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := DefaultLogger
	if verbose {
		logger = VerboseLogger
	}

	storage, err := NewStorage(config)
	if err != nil {
		log.Fatal(err)
	}
	mailbox, err := NewMailbox(config, logger)
	if err != nil {
		log.Fatal(err)
	}
	news := NewNewsAPIClient(config.NewsAPI, config.HTTPTimeout, logger)
	market := NewCoinGeckoClient(config.Market, config.HTTPTimeout, logger)
	var feeds FeedReader
	if len(config.Feeds) > 0 {
		feeds = NewFeedReader(config.Feeds, config.HTTPTimeout, logger)
	}
	worker := NewWorker(config, storage, mailbox, news, market, feeds, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if once {
		// Single-shot mode for external schedulers: exit code is the run
		// status.
		err = worker.Run(ctx)
		storage.Close()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	scheduler := NewScheduler(logger)
	if err = scheduler.Schedule(config.Schedule, worker); err != nil {
		log.Fatal(err)
	}

	go func() {
		scheduler.Run(ctx)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan bool, 1)
	go func() {
		<-sigs
		cancel()
		scheduler.Stop()
		storage.Close()
		done <- true
	}()

	<-done
}
