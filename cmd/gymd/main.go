package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"gym-occupancy-backend/config"
	"gym-occupancy-backend/internal/api"
	"gym-occupancy-backend/internal/cache"
	"gym-occupancy-backend/internal/db"
	"gym-occupancy-backend/internal/hours"
	"gym-occupancy-backend/internal/notification"
	"gym-occupancy-backend/internal/peak"
	"gym-occupancy-backend/internal/scraper"
	"gym-occupancy-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "gymd ", log.LstdFlags)

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			logger.Printf("no .env file loaded: %v", err)
		}
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	schedule, err := hours.New(cfg.Facility)
	if err != nil {
		logger.Fatalf("failed to build opening hours: %v", err)
	}

	var gormDB *gorm.DB
	if cfg.NeedsDatabase() {
		gormDB, err = db.Init(&cfg.Database)
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		logger.Println("database initialized successfully")
	}

	var snapshots store.SnapshotStore
	switch cfg.Snapshots.Backend {
	case "database":
		snapshots = store.NewGormSnapshotStore(gormDB, cfg.Snapshots.Retention())
	default:
		snapshots, err = store.NewFileStore(cfg.Snapshots.Path, cfg.Snapshots.Retention())
		if err != nil {
			logger.Fatalf("failed to open snapshot file: %v", err)
		}
	}
	logger.Printf("snapshot store initialized (%s)", cfg.Snapshots.Backend)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	observers := []scraper.StatusObserver{store.NewRecorder(snapshots, schedule.Location())}

	handlerOpts := api.Options{
		Hours:     schedule,
		Peak:      peak.NewAnalyzer(snapshots),
		Snapshots: snapshots,
	}

	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		subs := store.NewGormSubscriptionStore(gormDB)

		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, subs, webpushOptions, cfg.Facility.Name)
		pool.Start(ctx)
		observers = append(observers, pool)

		handlerOpts.Subscriptions = subs
		handlerOpts.Webpush = webpushOptions
		logger.Printf("push alerts enabled with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; push alerts disabled")
	}

	svc := scraper.NewService(cfg, schedule, cache.New(cfg.Cache.CleanupInterval), observers...)
	handlerOpts.Service = svc

	collector := scraper.NewCollector(cfg.Collector, svc)
	go func() {
		if err := collector.Run(ctx); err != nil {
			logger.Printf("snapshot collector stopped: %v", err)
		}
	}()

	// Initialize router
	router := api.NewRouter(cfg, api.NewHandler(handlerOpts))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	// Let in-flight snapshot writes and alert dispatches finish.
	svc.Wait()

	if gormDB != nil {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	logger.Println("Server gracefully stopped")
}
