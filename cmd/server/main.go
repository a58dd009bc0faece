package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/routes"
	"jobmatch/internal/auth"
	"jobmatch/internal/autoapply"
	"jobmatch/internal/config"
	"jobmatch/internal/coverletter"
	"jobmatch/internal/ingest"
	"jobmatch/internal/lifecycle"
	"jobmatch/internal/logging"
	"jobmatch/internal/store"
	"jobmatch/internal/store/memory"
	"jobmatch/internal/store/pgstore"
	"jobmatch/internal/store/redisstore"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting AI JobMatch server", map[string]interface{}{
		"storage_backend": cfg.Storage.Backend,
	})

	ctx := context.Background()

	// Storage backend
	st, err := newStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer st.Close()

	// Cover letter generation
	letters, err := coverletter.NewFromConfig(cfg)
	if err != nil {
		logger.Error("Failed to initialize cover letter generator", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	logger.Info("Cover letter generator ready", map[string]interface{}{
		"provider": letters.Name(),
	})

	// Domain services
	tokens := auth.NewTokenProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	scraper := ingest.NewScraper(cfg)
	refresher := ingest.NewRefresher(scraper, st.Jobs())
	selector := autoapply.NewSelector(st, letters, cfg)
	simulator := lifecycle.NewSimulator(st, cfg)

	// Lifecycle scheduler
	var scheduler *lifecycle.Scheduler
	if cfg.Lifecycle.Enabled {
		scheduler = lifecycle.NewScheduler(simulator, cfg)
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("Failed to start lifecycle scheduler", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, routes.Deps{
		Config:    cfg,
		Store:     st,
		Tokens:    tokens,
		Letters:   letters,
		Refresher: refresher,
		Selector:  selector,
		Simulator: simulator,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if scheduler != nil {
			scheduler.Stop()
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Error("Server stopped", map[string]interface{}{"error": err.Error()})
	}
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		return memory.New(), nil
	case "redis":
		return redisstore.New(cfg)
	case "postgres":
		return pgstore.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
