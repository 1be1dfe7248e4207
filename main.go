package main

import (
	"context"
	"os"
	"time"

	"openhouse-aggregator/config"
	"openhouse-aggregator/models"
	"openhouse-aggregator/scraper"
	"openhouse-aggregator/scraper/mock"
	"openhouse-aggregator/scraper/redfin"
	"openhouse-aggregator/services"
	"openhouse-aggregator/storage"
	"openhouse-aggregator/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Open House Ingestion Pipeline starting ===")
	logger.Info("Config — source: %s | location: %s | backend: %s",
		cfg.ScrapeSource, cfg.Location, cfg.BackendURL)

	var source scraper.Source
	switch cfg.ScrapeSource {
	case "redfin":
		source = redfin.New(
			time.Duration(cfg.ScrapeDelayMinMs)*time.Millisecond,
			time.Duration(cfg.ScrapeDelayMaxMs)*time.Millisecond,
			logger,
		)
	case "mock":
		source = mock.New(logger)
	default:
		logger.Error("Unknown SCRAPE_SOURCE %q (want mock or redfin)", cfg.ScrapeSource)
		os.Exit(1)
	}

	var sink storage.BatchSink
	skipSend := cfg.SkipSend
	if cfg.BackendURL == "" {
		skipSend = true
	} else {
		sink = storage.NewBackendSink(cfg.BackendURL, logger)
	}

	cleaner := services.NewCleaner(logger)
	pipeline := services.NewPipeline(source, cleaner, sink, logger)

	report := pipeline.Run(context.Background(), cfg.Location, services.RunOptions{
		SkipSend:   skipSend,
		OutputPath: cfg.JSONOutputPath,
	})

	summarySvc := services.NewSummaryService(logger)
	summarySvc.Print(summarySvc.Generate(report))

	logger.Info("Run finished: %s — %s", report.Status, report.Message)
	if report.Status == models.RunFailed {
		os.Exit(1)
	}
}
