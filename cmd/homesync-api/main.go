package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/homesync/homesync/internal/api"
	"github.com/homesync/homesync/internal/auth"
	"github.com/homesync/homesync/internal/config"
	"github.com/homesync/homesync/internal/export"
	inventorypostgres "github.com/homesync/homesync/internal/inventory/postgres"
	"github.com/homesync/homesync/internal/llm"
	"github.com/homesync/homesync/internal/observability"
	s3store "github.com/homesync/homesync/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("homesync-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	db, err := inventorypostgres.Open(context.Background(), inventorypostgres.DBConfig{
		DSN:             cfg.Inventory.ConnString(),
		MaxOpenConns:    cfg.Inventory.MaxOpenConns,
		MaxIdleConns:    cfg.Inventory.MaxIdleConns,
		ConnMaxIdleTime: cfg.Inventory.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Inventory.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open inventory db", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	store := inventorypostgres.NewStore(db)

	model, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL:     cfg.Model.BaseURL,
		APIKey:      cfg.Model.APIKey,
		Model:       cfg.Model.Model,
		Temperature: cfg.Model.Temperature,
		Timeout:     cfg.Model.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize model client", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := api.NewSessionManager(api.SessionManagerConfig{
		Store:         store,
		Model:         model,
		MaxSessions:   cfg.Chat.MaxSessions,
		ValidateInput: cfg.Chat.ValidateInput,
		Logger:        logger,
	})

	deps := api.Dependencies{
		Logger:   logger,
		Store:    store,
		Sessions: sessions,
		Readiness: api.CombineReadinessChecks(
			api.CheckInventoryStore(store),
		),
		DependencyTimeout: time.Second,
	}

	if cfg.Export.Enabled {
		objectStore, err := s3store.New(context.Background(), s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		deps.Exporter = export.NewExporter(store, objectStore, logger)
		deps.Readiness = api.CombineReadinessChecks(
			api.CheckInventoryStore(store),
			api.CheckObjectStoreConfig(cfg),
		)
	}

	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
