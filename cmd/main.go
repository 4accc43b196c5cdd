package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rideshare-backend/internal/config"
	domainUser "rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/infrastructure/cache"
	"rideshare-backend/internal/infrastructure/database/postgres"
	"rideshare-backend/internal/infrastructure/storage"
	"rideshare-backend/internal/logger"
	"rideshare-backend/internal/metrics"
	"rideshare-backend/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	var blacklist domainUser.TokenBlacklist = cache.NoopBlacklist{}
	if cfg.Redis.Enabled() {
		client := cache.NewClient(cfg.Redis)
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.String("address", cfg.Redis.Address), zap.Error(err))
		}
		blacklist = cache.NewTokenBlacklist(client)
		logger.Info("Access-token blacklist enabled", zap.String("address", cfg.Redis.Address))
	} else {
		logger.Warn("REDIS_ADDRESS not set; logged-out access tokens stay valid until they expire")
	}

	var images domainUser.ImageStore
	if cfg.Storage.Enabled() {
		store, err := storage.NewImageStore(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to configure image storage", zap.Error(err))
		}
		images = store
		logger.Info("Image storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Warn("S3 storage not configured; image uploads are disabled")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	router := routes.SetupRoutes(ctx, routes.Dependencies{
		Config:    cfg,
		DB:        db,
		Blacklist: blacklist,
		Images:    images,
		Metrics:   m,
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}
