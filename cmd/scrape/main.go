package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"racetally/application"
	"racetally/database"
	"racetally/domain/ingest"
	"racetally/infrastructure/blobstore"
	"racetally/infrastructure/config"
	"racetally/infrastructure/fetch"
	"racetally/infrastructure/repositories"
	"racetally/infrastructure/scrapers"
	"racetally/logging"
	"racetally/platform/events"
)

// scrape runs one job synchronously against the same wiring the server
// uses, then prints the outcome. Useful for backfills and for testing a
// sources file entry without starting the server.
func main() {
	if err := godotenv.Load(); err != nil {
		// Environment variables may be set directly
		println("No .env file found")
	}

	organiser := flag.String("organiser", "", "Registered organiser key for the event source")
	url := flag.String("url", "", "Event results URL to scrape")
	startedBy := flag.String("started-by", "cli", "Submitter recorded on the job")
	flag.Parse()

	if *url == "" {
		fmt.Println("Usage: scrape -url <event-url> [-organiser <key>] [-started-by <name>]")
		fmt.Println("\nExample:")
		fmt.Println("  scrape -organiser harriers -url https://results.harriers.example/races/42")
		os.Exit(1)
	}

	cfg := config.LoadAppConfigFromEnv()

	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	scrapeService, browserFetcher := buildScrapeService(cfg, db, logger)
	if browserFetcher != nil {
		defer browserFetcher.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Interrupt received, cancelling")
		cancel()
	}()

	result, err := scrapeService.ProcessScrapeJob(ctx, ingest.ScrapeJobRequest{
		Organiser: *organiser,
		EventURL:  *url,
		StartedBy: *startedBy,
	})
	if err != nil {
		logger.Error("Scrape job failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("\n=== Scrape Summary ===")
	fmt.Printf("Job ID:        %s\n", result.Job.ID)
	fmt.Printf("Status:        %s\n", result.Job.Status)
	fmt.Printf("Event ID:      %s\n", result.EventID)
	fmt.Printf("Results:       %d\n", result.ResultsCount)
	fmt.Printf("Completed At:  %s\n", result.Job.UpdatedAt.Format("2006-01-02 15:04:05 UTC"))
}

// buildScrapeService wires the pipeline the same way the server does,
// minus the SSE notifier. The event bus stays subscriber-free here.
func buildScrapeService(cfg *config.AppConfig, db *database.Database, logger *logging.Logger) (application.ScrapeService, *fetch.BrowserFetcher) {
	jobRepo := repositories.NewSqlJobRepository(db)
	eventRepo := repositories.NewSqlEventRepository(db)

	registry, browserFetcher := buildScraperRegistry(cfg, logger)

	archive, err := blobstore.NewFileArchive(cfg.ArchiveDir, logger)
	if err != nil {
		logger.Error("Failed to initialize payload archive", "error", err, "dir", cfg.ArchiveDir)
		os.Exit(1)
	}

	service := application.NewScrapeService(
		jobRepo,
		eventRepo,
		registry,
		fetch.NewHeadProbe(logger),
		archive,
		events.NewJobEventBus(),
		cfg.ProbeTimeout,
	)

	return service, browserFetcher
}

// buildScraperRegistry registers a capability for every configured source.
func buildScraperRegistry(cfg *config.AppConfig, logger *logging.Logger) (*application.ScraperRegistry, *fetch.BrowserFetcher) {
	sources, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Error("Failed to load sources file", "error", err, "path", cfg.SourcesPath)
		os.Exit(1)
	}

	registry := application.NewScraperRegistry()

	var (
		jsonFeedScraper *scrapers.JSONFeedScraper
		browserScraper  *scrapers.BrowserScraper
		browserFetcher  *fetch.BrowserFetcher
	)

	for _, source := range sources.Sources {
		var capability ingest.Capability

		switch source.Scraper {
		case "jsonfeed":
			if jsonFeedScraper == nil {
				httpFetcher := fetch.NewHTTPFetcher(30*time.Second, logger)
				jsonFeedScraper = scrapers.NewJSONFeedScraper(httpFetcher, logger)
			}
			capability = jsonFeedScraper
		case "browser":
			if browserScraper == nil {
				browserFetcher, err = fetch.NewBrowserFetcher(&fetch.BrowserOptions{Stealth: true}, logger)
				if err != nil {
					logger.Error("Failed to start browser fetcher", "error", err)
					os.Exit(1)
				}
				browserScraper = scrapers.NewBrowserScraper(browserFetcher, &fetch.BrowserFetchOptions{
					BlockAds:    true,
					BlockImages: true,
				}, logger)
			}
			capability = browserScraper
		default:
			logger.Error("Unknown scraper in sources file",
				"scraper", source.Scraper,
				"organiser", source.Organiser,
			)
			os.Exit(1)
		}

		registry.Register(source.Organiser, source.URLPatterns, capability)
	}

	return registry, browserFetcher
}
