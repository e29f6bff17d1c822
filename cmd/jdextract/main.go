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

	"github.com/jobsift/jdextract/api"
	"github.com/jobsift/jdextract/cache"
	"github.com/jobsift/jdextract/config"
	"github.com/jobsift/jdextract/extractor"
	"github.com/jobsift/jdextract/fetcher"
	"github.com/jobsift/jdextract/metrics"
	"github.com/jobsift/jdextract/pipeline"
	"github.com/jobsift/jdextract/renderer"
	"github.com/jobsift/jdextract/storage"
	"github.com/jobsift/jdextract/validator"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)

	// ── 3. Build the pipeline stages ────────────────────────────────
	ft := fetcher.New(cfg.Fetch)
	ex := extractor.New(cfg.Extract)
	rd := renderer.New(cfg.Browser, cfg.Fetch.Timeout, ex)
	cls := validator.NewClassifier(nil, cfg.Validate)
	pl := pipeline.New(ft, rd, cls)

	slog.Info("jdextract starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"browserMode", rd.Mode(),
		"aiValidation", cls.Available(),
	)
	if !cls.Available() {
		slog.Warn("no LLM credential configured, all extracted content will be rejected")
	}

	// ── 4. Result cache ─────────────────────────────────────────────
	var cc cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		rc := cache.NewRedis(cfg.Cache.RedisAddr)
		if err := rc.Ping(context.Background()); err != nil {
			slog.Error("redis unreachable", "addr", cfg.Cache.RedisAddr, "error", err)
			os.Exit(1)
		}
		cc = rc
	default:
		cc = cache.NewMemory(cfg.Cache.MaxEntries)
	}

	// ── 5. Optional audit log ───────────────────────────────────────
	var rec storage.Recorder
	if cfg.Storage.DatabaseURL != "" {
		pg, err := storage.NewPostgres(context.Background(), cfg.Storage.DatabaseURL)
		if err != nil {
			slog.Error("failed to initialise audit storage", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		rec = pg
	}

	// ── 6. Router and HTTP server ───────────────────────────────────
	m := metrics.New()
	startTime := time.Now()
	router := api.NewRouter(pl, rd, cfg, cc, m, rec, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight extractions 10 seconds to complete; a headless
	// navigation can legitimately take several of those.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("jdextract stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
