package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/bankview/internal/infra/gateway/corebank"
	"github.com/kislikjeka/bankview/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/bankview/internal/infra/redis"
	"github.com/kislikjeka/bankview/internal/platform/account"
	"github.com/kislikjeka/bankview/internal/platform/detail"
	"github.com/kislikjeka/bankview/internal/transport/httpapi"
	"github.com/kislikjeka/bankview/internal/transport/httpapi/handler"
	"github.com/kislikjeka/bankview/pkg/config"
	"github.com/kislikjeka/bankview/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting bankview API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for details caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Infrastructure adapters
	accountRepo := postgres.NewAccountRepository(db.Pool)
	detailsCache := infraRedis.NewDetailsCacheWithTTL(redisClient, cfg.DetailsCacheTTL, log)
	bankClient := corebank.NewClient(cfg.CoreBankAPIURL, cfg.CoreBankAPIKey, log)

	// Domain services
	favoriteHub := account.NewHub()
	defer favoriteHub.Close()

	accountSvc := account.NewService(accountRepo, bankClient, favoriteHub, log)
	log.Info("Account service initialized")

	viewRegistry := detail.NewRegistry(accountRepo, bankClient, detailsCache, accountSvc, favoriteHub, log)
	defer viewRegistry.CloseAll()
	log.Info("Detail view registry initialized")

	// Warm the cache so a cold start can serve the list offline-first
	if _, err := accountSvc.Refresh(ctx, true); err != nil {
		log.Warn("Initial account refresh failed, starting with cache only", "error", err)
	}

	// HTTP handlers
	accountHandler := handler.NewAccountHandler(accountSvc)
	viewHandler := handler.NewViewHandler(viewRegistry)
	healthHandler := handler.NewHealthHandler(db)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"} // Vite ports
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		AllowedOrigins: allowedOrigins,
		AccountHandler: accountHandler,
		ViewHandler:    viewHandler,
		HealthHandler:  healthHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Close open detail sessions before the server stops
	viewRegistry.CloseAll()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
