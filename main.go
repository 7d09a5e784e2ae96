package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"carscout/config"
	"carscout/httputil"
	"carscout/logging"
	"carscout/scheduler"
	"carscout/scraper"
	"carscout/services"
	"carscout/storage"
	"carscout/workers"
)

var (
	scrapeNow = flag.Bool("scrape", false, "Run one crawl and exit")
	runID     = flag.String("run-id", "", "Run id to resume (with -scrape); default is a fresh id")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logger.WithField("component", "main")
	log.Info("Starting carscout")
	log.WithField("brands", len(cfg.Brands)).Info("Loaded brand seed list")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		repo    storage.Repository
		archive storage.ImageArchive
	)
	if cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Postgres")
		}
		defer store.Close()
		log.Info("Connected to Postgres")
		repo, archive = store, store
	} else {
		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.WithError(err).Fatal("Failed to open SQLite")
		}
		defer store.Close()
		log.WithField("path", cfg.DBPath).Info("Using SQLite store")
		repo, archive = store, store
	}

	clients := httputil.NewClients(cfg.ProxyURL)

	browser := scraper.NewBrowser(cfg.Walker.Headless)
	defer browser.Close()

	policy := scraper.BackoffPolicy{
		MaxAttempts: cfg.Backoff.MaxAttempts,
		MaxElapsed:  cfg.Backoff.MaxElapsed,
		BaseDelay:   cfg.Backoff.BaseDelay,
		Factor:      cfg.Backoff.Factor,
	}

	walker := scraper.NewWalker(browser, policy, scraper.WalkerConfig{
		MinDelay:     cfg.Walker.MinDelay,
		MaxDelay:     cfg.Walker.MaxDelay,
		ReadyTimeout: cfg.Walker.ReadyTimeout,
	}, logger.WithField("component", "walker"))

	sessions := scraper.NewBrowserSessionSource(browser, clients.Scraping, cfg.Walker.ReadyTimeout,
		logger.WithField("component", "session"))
	fetcher := scraper.NewFetcher(sessions, policy, scraper.FetcherConfig{
		MinDelay:    cfg.Fetcher.MinDelay,
		MaxDelay:    cfg.Fetcher.MaxDelay,
		RotateEvery: cfg.Fetcher.RotateEvery,
	}, logger.WithField("component", "fetcher"))

	tracker := services.NewRunTracker(repo, logger.WithField("component", "runs"))
	orchestrator := scraper.NewOrchestrator(repo, tracker, walker, fetcher,
		logger.WithField("component", "orchestrator"))

	if *scrapeNow {
		id := *runID
		if id == "" {
			id = uuid.NewString()
		}
		summary, err := orchestrator.RunCrawl(ctx, id, cfg.Brands)
		if err != nil {
			log.WithError(err).Fatal("Crawl failed")
		}
		log.WithFields(logrus.Fields{
			"run_id":   id,
			"listings": summary.Listings,
			"vehicles": summary.Vehicles,
			"errors":   summary.Errors,
		}).Info("Crawl complete")
		return
	}

	// Daemon mode
	sched := scheduler.New(cfg, orchestrator, logger.WithField("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}

	if cfg.Media.Enabled {
		uploader, err := storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			log.WithError(err).Fatal("Failed to set up S3 uploader")
		}
		imageWorker := workers.NewImageWorker(archive, clients.API, uploader,
			logger.WithField("component", "images"))
		go imageWorker.Run(ctx, cfg.Media.BatchSize, cfg.Media.Interval)
		log.Info("Image worker started")
	}

	log.Info("Daemon running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down")
	sched.Stop()
	cancel()
}
