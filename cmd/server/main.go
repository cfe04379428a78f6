package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"wastex-backend/internal/cache"
	"wastex-backend/internal/config"
	"wastex-backend/internal/database"
	"wastex-backend/internal/db"
	"wastex-backend/internal/handlers"
	"wastex-backend/internal/health"
	h "wastex-backend/internal/http"
	"wastex-backend/internal/llm"
	"wastex-backend/internal/middleware"
	"wastex-backend/internal/queue"
	"wastex-backend/internal/repositories"
	"wastex-backend/internal/services"
	"wastex-backend/internal/speech"
	"wastex-backend/internal/storage"
	"wastex-backend/migrations"
)

// syncPollInterval controls how often the connectivity watcher pings the
// remote store when idle.
const syncPollInterval = 30 * time.Second

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (reports will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	productionRepo := repositories.NewProductionRepository(pool)
	journalRepo := repositories.NewJournalRepository(pool)
	agingRepo := repositories.NewAgingRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)

	// Blob storage for photo evidence
	photoStore, err := storage.NewPhotoStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// Local durable queue + sync engine
	queueStore, err := queue.NewStore(cfg.Queue.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize local queue: %v", err)
	}
	syncService := services.NewSyncService(queueStore, productionRepo, photoStore)

	syncCtx, syncCancel := context.WithCancel(context.Background())
	defer syncCancel()
	go syncService.Run(syncCtx, syncPollInterval)

	// Reports
	reportService := services.NewReportService(journalRepo, agingRepo, paymentRepo)

	// Assistant (optional - endpoint may be unconfigured in dev)
	var assistantService *services.AssistantService
	if cfg.Assistant.Endpoint != "" {
		llmClient, err := llm.NewClient(cfg.Assistant.Endpoint, cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			log.Fatalf("Failed to initialize assistant client: %v", err)
		}
		assistantService = services.NewAssistantService(llmClient, reportService, journalRepo)
	} else {
		log.Println("[Assistant] No endpoint configured, assistant disabled")
		assistantService = services.NewAssistantService(nil, reportService, journalRepo)
	}

	exportService := services.NewExportService(syncService)

	// Health checker reports DB reachability and local queue depth
	healthChecker := health.NewHealthChecker(pool, queueStore.PendingDepth)

	// Initialize handlers
	productionHandler := handlers.NewProductionHandler(syncService)
	reportHandler := handlers.NewReportHandler(reportService)
	exportHandler := handlers.NewExportHandler(exportService)
	photoHandler := handlers.NewPhotoHandler(photoStore)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	speechHandler := handlers.NewSpeechHandler(speech.NewRelayRecognizer())
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		productionHandler,
		reportHandler,
		exportHandler,
		photoHandler,
		assistantHandler,
		speechHandler,
		healthHandler,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
