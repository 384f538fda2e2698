// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the ITVE donor HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the configured store (MongoDB, or PostgreSQL after migrations).
//  4. Build the token service, image storage and metrics registry.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
// Startup failures unwind through run so opened stores are closed first.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/itve/donorapi/internal/api"
	"github.com/itve/donorapi/internal/donor"
	"github.com/itve/donorapi/internal/hope"
	"github.com/itve/donorapi/internal/platform/config"
	"github.com/itve/donorapi/internal/platform/constants"
	"github.com/itve/donorapi/internal/platform/metrics"
	"github.com/itve/donorapi/internal/platform/middleware"
	"github.com/itve/donorapi/internal/platform/migration"
	mongostore "github.com/itve/donorapi/internal/platform/mongo"
	pgstore "github.com/itve/donorapi/internal/platform/postgres"
	"github.com/itve/donorapi/internal/platform/sec"
	"github.com/itve/donorapi/internal/platform/storage"
)

// stores bundles the repositories of the active backend.
type stores struct {
	donors donor.Repository
	hopes  hope.Repository
	health api.HealthDependencies
	close  func()
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// run returns instead of exiting so its deferred cleanup always happens.
	if err := run(log); err != nil {
		log.Error("startup_failure", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// run wires the process and blocks until shutdown. Every resource opened
// here is released before it returns, on success and on failure alike.
func run(log *slog.Logger) error {
	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Root context for startup, so misconfiguration is caught quickly rather
	// than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Store ──────────────────────────────────────────────────────────
	backend, err := openStores(startupCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.close()

	// ── 4. Security, Storage & Metrics ────────────────────────────────────
	tokens, err := sec.NewTokenService(sec.TokenOptions{
		Secret:     cfg.JWTSecretKey,
		Algorithm:  cfg.JWTAlgorithm,
		Issuer:     constants.AuthIssuer,
		AccessTTL:  cfg.AccessTokenTTL(),
		RefreshTTL: cfg.RefreshTokenTTL(),
	})
	if err != nil {
		return fmt.Errorf("initialize token service: %w", err)
	}

	images, uploads, err := openImageStore(startupCtx, cfg)
	if err != nil {
		return fmt.Errorf("initialize image storage: %w", err)
	}

	collector := metrics.New()

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(backend.health, log)

	donorService := donor.NewService(backend.donors, tokens, images, donor.ImageOptions{
		AllowedExtensions: cfg.AllowedExtensions,
		MaxBytes:          cfg.MaxUploadBytes,
	}, collector)
	hopeService := hope.NewService(backend.hopes)

	server := api.NewServer(cfg, log, collector, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   collector.Handler(),
		Uploads:   uploads,
		Donor:     donor.NewHandler(donorService, middleware.RequireDonor(tokens)),
		Hope:      hope.NewHandler(hopeService),
	})

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	var listenErr error
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case listenErr = <-serverErr:
		log.Error("server_listen_error", slog.Any("error", listenErr))
	}

	// Give in-flight requests enough time to complete.
	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	if listenErr != nil {
		return fmt.Errorf("serve http: %w", listenErr)
	}
	return nil
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// openStores connects the backend named by STORE_DRIVER.
func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return nil, err
		}

		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}

		return &stores{
			donors: donor.NewPostgresRepository(pool),
			hopes:  hope.NewPostgresRepository(pool),
			health: api.HealthDependencies{
				StoreName:  config.DriverPostgres,
				CheckStore: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
			},
			close: func() {
				log.Info("closing_postgres_pool")
				pool.Close()
			},
		}, nil

	default:
		store, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.DatabaseName, log)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}

		return &stores{
			donors: donor.NewMongoRepository(store.Database()),
			hopes:  hope.NewMongoRepository(store.Database()),
			health: api.HealthDependencies{StoreName: config.DriverMongo, CheckStore: store.Ping},
			close: func() {
				log.Info("closing_mongo_client")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
				defer cancel()
				if err := store.Close(shutdownCtx); err != nil {
					log.Error("mongo_close_error", slog.Any("error", err))
				}
			},
		}, nil
	}
}

// openImageStore selects S3 when a bucket is configured and the local disk
// otherwise. The returned handler serves disk uploads and is nil for S3.
func openImageStore(ctx context.Context, cfg *config.Config) (storage.Store, http.Handler, error) {
	if cfg.UsesS3() {
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Handler(), nil
}
