package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"racetally/application"
	"racetally/database"
	"racetally/domain/contracts"
	"racetally/domain/ingest"
	"racetally/infrastructure/blobstore"
	"racetally/infrastructure/config"
	"racetally/infrastructure/fetch"
	"racetally/infrastructure/repositories"
	"racetally/infrastructure/scrapers"
	"racetally/interfaces/web/handlers"
	"racetally/interfaces/web/presenters"
	"racetally/logging"
	"racetally/platform/events"
)

func main() {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Build dependencies with app context
	deps := buildDependencies(appCtx, cfg, db, logger)

	// Periodically remove finished jobs past the retention window
	startJobRetentionSweep(appCtx, deps.JobRepo, cfg.JobRetention, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps, appCancel)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	ScrapeService   application.ScrapeService
	BrowsingService *application.EventBrowsingService
	AthleteService  *application.AthleteService
	Registry        *application.ScraperRegistry
	EventBus        *events.JobEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	// Presenters
	JobPresenter     *presenters.JobPresenter
	EventPresenter   *presenters.EventPresenter
	AthletePresenter *presenters.AthletePresenter

	// Handlers
	JobHandlers     *handlers.JobHandlers
	EventHandlers   *handlers.EventHandlers
	AthleteHandlers *handlers.AthleteHandlers
	SSEManager      *handlers.SSEManager
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB             *database.Database
	Logger         *logging.Logger
	BrowserFetcher *fetch.BrowserFetcher

	// Repositories
	JobRepo   contracts.JobRepository
	EventRepo contracts.EventRepository

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// RepositoryBundle holds all repository implementations
type RepositoryBundle struct {
	JobRepo   contracts.JobRepository
	EventRepo contracts.EventRepository
}

// buildRepositories creates all repository implementations with read/write database separation
func buildRepositories(database *database.Database) *RepositoryBundle {
	return &RepositoryBundle{
		JobRepo:   repositories.NewSqlJobRepository(database),
		EventRepo: repositories.NewSqlEventRepository(database),
	}
}

// buildScraperRegistry registers a capability for every configured source.
// Scraper instances are shared between sources that name the same scraper;
// the headless browser only starts when a source actually asks for it.
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

	logger.Info("Scraper registry built",
		"sources", len(sources.Sources),
		"organisers", registry.RegisteredOrganisers(),
	)

	return registry, browserFetcher
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices(cfg *config.AppConfig, repos *RepositoryBundle, logger *logging.Logger) (*ApplicationServices, *fetch.BrowserFetcher) {
	// Create event bus for job events
	eventBus := events.NewJobEventBus()

	// Build the scraper registry from the sources file
	registry, browserFetcher := buildScraperRegistry(cfg, logger)

	probe := fetch.NewHeadProbe(logger)

	archive, err := blobstore.NewFileArchive(cfg.ArchiveDir, logger)
	if err != nil {
		logger.Error("Failed to initialize payload archive", "error", err, "dir", cfg.ArchiveDir)
		os.Exit(1)
	}

	scrapeService := application.NewScrapeService(
		repos.JobRepo,
		repos.EventRepo,
		registry,
		probe,
		archive,
		eventBus,
		cfg.ProbeTimeout,
	)
	browsingService := application.NewEventBrowsingService(repos.EventRepo)
	athleteService := application.NewAthleteService(repos.EventRepo)

	return &ApplicationServices{
		ScrapeService:   scrapeService,
		BrowsingService: browsingService,
		AthleteService:  athleteService,
		Registry:        registry,
		EventBus:        eventBus,
	}, browserFetcher
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(appCtx context.Context, services *ApplicationServices) *PresentationLayer {
	// Build presenters (view logic)
	jobPresenter := presenters.NewJobPresenter()
	eventPresenter := presenters.NewEventPresenter()
	athletePresenter := presenters.NewAthletePresenter()

	// Build handlers - orchestrate services & presenters
	sseManager := handlers.NewSSEManager(appCtx)
	jobHandlers := handlers.NewJobHandlers(services.ScrapeService, jobPresenter)
	eventHandlers := handlers.NewEventHandlers(services.BrowsingService, eventPresenter)
	athleteHandlers := handlers.NewAthleteHandlers(services.AthleteService, athletePresenter)

	// Wire up update notifications
	services.ScrapeService.SetUpdateNotifier(sseManager)

	// Setup event system for job notifications
	setupEventHandlers(services, sseManager)

	return &PresentationLayer{
		JobPresenter:     jobPresenter,
		EventPresenter:   eventPresenter,
		AthletePresenter: athletePresenter,
		JobHandlers:      jobHandlers,
		EventHandlers:    eventHandlers,
		AthleteHandlers:  athleteHandlers,
		SSEManager:       sseManager,
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(appCtx context.Context, cfg *config.AppConfig, db *database.Database, logger *logging.Logger) *Dependencies {
	// Build each layer
	repos := buildRepositories(db)
	services, browserFetcher := buildApplicationServices(cfg, repos, logger)
	presentation := buildPresentationLayer(appCtx, services)

	return &Dependencies{
		DB:             db,
		Logger:         logger,
		BrowserFetcher: browserFetcher,
		JobRepo:        repos.JobRepo,
		EventRepo:      repos.EventRepo,
		Services:       services,
		Presentation:   presentation,
	}
}

// startJobRetentionSweep periodically deletes finished jobs older than the
// retention window. A non-positive retention disables the sweep.
func startJobRetentionSweep(appCtx context.Context, jobRepo contracts.JobRepository, retention time.Duration, logger *logging.Logger) {
	if retention <= 0 {
		logger.Info("Job retention sweep disabled")
		return
	}

	sweepLogger := logger.WithComponent("job_retention")
	sweep := func() {
		cutoff := time.Now().Add(-retention)
		if err := jobRepo.DeleteOldJobs(appCtx, cutoff); err != nil {
			sweepLogger.Error("Failed to delete old jobs", "error", err)
			return
		}
		sweepLogger.Debug("Old jobs swept", "cutoff", cutoff.Format(time.RFC3339))
	}

	go func() {
		sweep()

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-appCtx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()

	logger.Info("Job retention sweep started", "retention", retention.String())
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Scrape job routes
	setupJobRoutes(r, deps)

	// Browsing and analysis routes
	setupEventRoutes(r, deps)
	setupAthleteRoutes(r, deps)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("racetally", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.DB.Health()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"status":   "ok",
			"database": stats,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	r.Get("/events/stream", deps.Presentation.SSEManager.HandleSSEConnection)
}

func setupJobRoutes(r *chi.Mux, deps *Dependencies) {
	r.Post("/scrape", deps.Presentation.JobHandlers.SubmitScrape)

	r.Get("/jobs", deps.Presentation.JobHandlers.ListJobs)
	r.Get("/jobs/active", deps.Presentation.JobHandlers.ListActiveJobs)
	r.Get("/jobs/{jobID}", deps.Presentation.JobHandlers.GetJobStatus)
}

func setupEventRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/events", deps.Presentation.EventHandlers.ListEvents)
	r.Get("/events/{eventID}", deps.Presentation.EventHandlers.GetEvent)
	r.Get("/events/{eventID}/results", deps.Presentation.EventHandlers.GetEventResults)
	r.Get("/events/{eventID}/profile", deps.Presentation.EventHandlers.GetCourseProfile)
	r.Get("/events/{eventID}/percentile", deps.Presentation.AthleteHandlers.GetPercentile)
}

func setupAthleteRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/athletes/search", deps.Presentation.AthleteHandlers.SearchAthletes)
	r.Get("/athletes/results", deps.Presentation.AthleteHandlers.GetAthleteResults)
	r.Get("/athletes/compare", deps.Presentation.AthleteHandlers.CompareAthletes)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies, appCancel context.CancelFunc) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first to signal all services to shutdown
		logger.Info("Cancelling app context...")
		appCancel()

		// Close SSE connections immediately
		logger.Info("Closing SSE connections...")
		deps.Presentation.SSEManager.CloseAll()

		if deps.BrowserFetcher != nil {
			logger.Info("Stopping browser fetcher...")
			if err := deps.BrowserFetcher.Close(); err != nil {
				logger.Error("Browser fetcher shutdown error", "error", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}

// setupEventHandlers wires up the event handlers for job notifications
func setupEventHandlers(services *ApplicationServices, sseManager *handlers.SSEManager) {
	// Create event handlers using the event bus from services
	notificationHandlers := events.NewNotificationEventHandlers(sseManager)

	// Register all event handlers with the existing event bus
	notificationHandlers.RegisterHandlers(services.EventBus)
}
