// Package main is the entry point for the category planner server.
// It loads configuration, connects to services, restores the saved
// collection, sets up routing, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/cache"
	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/config"
	"github.com/StorkenPb/CategoryPlanner/internal/csvio"
	"github.com/StorkenPb/CategoryPlanner/internal/database"
	"github.com/StorkenPb/CategoryPlanner/internal/editor"
	"github.com/StorkenPb/CategoryPlanner/internal/handlers"
	"github.com/StorkenPb/CategoryPlanner/internal/layout"
	"github.com/StorkenPb/CategoryPlanner/internal/middleware"
	"github.com/StorkenPb/CategoryPlanner/internal/router"
	"github.com/StorkenPb/CategoryPlanner/internal/storage"
	"github.com/StorkenPb/CategoryPlanner/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON outside development, text in development.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if !cfg.IsDev() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"db", cfg.DBDriver,
	)

	langs, err := config.LoadLanguages(cfg.LanguagesFile)
	if err != nil {
		slog.Error("failed to load languages", "error", err)
		os.Exit(1)
	}

	// Connect to the database.
	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		slog.Error("invalid database driver", "error", err)
		os.Exit(1)
	}
	db, err := database.Connect(dialect, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db, dialect); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Seed the sample catalogue in development (no-op if data exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db, dialect); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Restore the saved collection.
	categoryStore := store.NewCategoryStore(db, dialect)
	cats, err := categoryStore.Load(ctx)
	if err != nil {
		slog.Error("failed to load categories", "error", err)
		os.Exit(1)
	}
	if err := category.Validate(cats); err != nil {
		slog.Warn("stored categories violate integrity, serving as is", "error", err)
	}
	slog.Info("categories loaded", "count", len(cats))

	session := editor.NewSession(cats, editor.Config{
		Languages: langs,
		Options: category.Options{
			Languages:   langs.Codes(),
			Placeholder: cfg.PlaceholderLabel,
			Spacing: layout.Spacing{
				SiblingSpacing: cfg.SiblingSpacing,
				LevelHeight:    cfg.LevelHeight,
				ChildOffset:    cfg.ChildOffset,
			},
		},
		ChunkThreshold: cfg.ChunkThreshold,
		Slice:          cfg.BuildSlice,
	})
	outline := editor.NewOutlineEditor(session, cfg.OutlineDebounce)
	defer outline.Close()

	// Connect to Valkey for the render-graph cache (optional).
	var graphs *cache.GraphCache
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(ctx, cache.ValkeyOptions{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		graphs = cache.NewGraphCache(valkeyClient, cfg.GraphCacheTTL)
	} else {
		slog.Warn("valkey not configured, graph cache disabled")
	}

	// Connect to S3-compatible object storage (optional, archive only).
	var archive *handlers.Archive
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		archive = &handlers.Archive{
			Client: storageClient,
			Log:    store.NewArchiveStore(db, dialect),
		}
	} else {
		slog.Warn("s3 storage not configured, export archive disabled")
	}

	api := handlers.NewAPI(session, outline, categoryStore, graphs, archive, csvio.ImportOptions{
		Languages:       langs,
		CycleCheckLimit: cfg.CycleCheckLimit,
	})

	// Import and archive routes are limited per client; 0 turns it off.
	var limiter *middleware.RateLimiter
	if cfg.TransferRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.TransferRateLimit, time.Minute)
		defer limiter.Stop()
	}

	r := router.New(api, middleware.NewTokenAuth(cfg.EditorTokenHash), limiter)

	// Create the HTTP server with sensible timeouts. Chunked graph builds of
	// large collections need the longer write timeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Apply any outline edit still waiting for the debounce.
	outline.Flush()

	slog.Info("server stopped gracefully")
}
