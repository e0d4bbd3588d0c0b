// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Radic API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
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

	"radic/internal/ai"
	"radic/internal/cache"
	"radic/internal/config"
	"radic/internal/database"
	"radic/internal/generation"
	"radic/internal/handlers"
	"radic/internal/identity"
	"radic/internal/middleware"
	"radic/internal/models"
	"radic/internal/router"
	"radic/internal/storage"
	"radic/internal/store"
)

func main() {
	// Load configuration from environment variables (and .env, if present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), time.Minute)
	db, err := database.Connect(connectCtx, cfg.DSN())
	cancelConnect()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if _, err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (design cache + identity cache).
	valkeyCtx, cancelValkey := context.WithTimeout(context.Background(), 5*time.Second)
	valkeyClient, err := cache.ConnectValkey(valkeyCtx, cache.ValkeyOptions{
		Addr:     cfg.ValkeyAddr(),
		Password: cfg.ValkeyPassword,
	})
	cancelValkey()
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// S3-compatible object storage is optional; image generation is
	// disabled without it.
	objects, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3BucketPublic,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}

	// AI providers and the generation pipeline.
	registry := ai.NewRegistry(cfg.AIProvider, cfg.ProviderConfigs())
	slog.Info("ai providers initialized",
		"active", registry.ActiveName(),
		"available", registry.Available(),
		"image_generation", registry.SupportsImageGeneration(),
	)
	if len(registry.Available()) == 0 {
		slog.Warn("no AI provider configured, briefs fall back to the placeholder and generation fails")
	}

	deps := handlers.Deps{
		Pipeline:    generation.NewPipeline(registry, cfg.Generation()),
		Images:      generation.NewImageGenerator(registry, cfg.Generation()),
		Providers:   registry,
		Designs:     store.NewDesignStore(db),
		Brands:      store.NewBrandStore(db),
		Assets:      store.NewAssetStore(db),
		DesignCache: cache.NewDesignCache(valkeyClient, cache.DefaultDesignTTL),
	}
	// A nil *storage.Client must not become a non-nil interface.
	if objects != nil {
		deps.Objects = objects
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", objects.Bucket())
	} else {
		slog.Warn("s3 storage not configured, image generation disabled")
	}
	api := handlers.NewAPI(deps)

	// Identity: the external provider, or a fixed user for local development.
	var verifier middleware.Verifier
	switch {
	case cfg.IdentityURL != "":
		verifier = identity.NewVerifier(cfg.IdentityURL, cfg.IdentityAPIKey, valkeyClient)
	case cfg.IsDev():
		slog.Warn("IDENTITY_URL not set, every bearer token is accepted as the development user",
			"user", database.DevOwnerID)
		verifier = identity.Static{User: models.User{ID: database.DevOwnerID, Email: "dev@localhost"}}
	default:
		slog.Warn("IDENTITY_URL not set, only anonymous generation is available")
	}

	limiter := middleware.NewRateLimiter(cfg.AIRateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(api, verifier, limiter)

	// WriteTimeout must cover two stages with retries and backoff.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
