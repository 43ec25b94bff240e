package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/carbon-tracker/internal/config"
	httpserver "github.com/tendant/carbon-tracker/internal/http"
	"github.com/tendant/carbon-tracker/pkg/auth"
	"github.com/tendant/carbon-tracker/pkg/repository"
	"github.com/tendant/carbon-tracker/pkg/repository/memory"
	"github.com/tendant/carbon-tracker/pkg/repository/mongodb"
	"github.com/tendant/carbon-tracker/pkg/repository/postgres"
	"github.com/tendant/carbon-tracker/pkg/tracker"
)

const storeConnectTimeout = 30 * time.Second

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to the store
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), storeConnectTimeout)
	store, err := openStore(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		logger.Error("failed to open store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}

	logger.Info("connected to store", "backend", cfg.StoreBackend)

	// Initialize token service if configured
	var tokenService *auth.TokenService
	if cfg.HasAuth() {
		tokenService, err = auth.NewTokenService(auth.TokenConfig{
			Secret:         []byte(cfg.JWTSecret),
			Issuer:         cfg.JWTIssuer,
			AccessTokenTTL: cfg.AccessTokenTTL,
		})
		if err != nil {
			logger.Error("failed to create token service", "error", err)
			os.Exit(1)
		}
		logger.Info("token authentication enabled")
	} else {
		logger.Warn("JWT_SECRET not set; API is unauthenticated")
	}

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:              logger,
		Store:               store,
		OrganizationService: tracker.NewOrganizationService(logger, store),
		SystemService:       tracker.NewSystemService(logger, store),
		EmissionsService:    tracker.NewEmissionsService(store),
		TokenService:        tokenService,
		APIPrefix:           cfg.APIPrefix,
		StaticDir:           cfg.StaticDir,
		RateLimitConfig:     cfg.RateLimit,
		SecurityHeaders:     cfg.SecurityHeaders,
		Validation:          cfg.Validation,
		CORS:                cfg.CORS,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "api_prefix", cfg.APIPrefix)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := store.Close(ctx); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		store, err := mongodb.NewStore(ctx, client, cfg.MongoDatabase)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return store, nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(postgres.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			return nil, err
		}
		store, err := postgres.NewStore(ctx, db, cfg.DBAutoMigrate)
		if err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case config.BackendMemory:
		return memory.NewStore(), nil
	}

	return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}
