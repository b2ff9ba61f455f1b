package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/atc-engine/internal/api"
	"github.com/snarg/atc-engine/internal/config"
	"github.com/snarg/atc-engine/internal/database"
	"github.com/snarg/atc-engine/internal/filter"
	"github.com/snarg/atc-engine/internal/ingest"
	"github.com/snarg/atc-engine/internal/process"
)

var version = "dev"

func main() {
	startTime := time.Now()

	var ov config.Overrides
	flag.StringVar(&ov.EnvFile, "env-file", "", "path to .env file (default .env)")
	flag.StringVar(&ov.HTTPAddr, "addr", "", "HTTP listen address")
	flag.StringVar(&ov.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flag.StringVar(&ov.DatabaseURL, "database-url", "", "PostgreSQL connection string")
	flag.StringVar(&ov.TranscriptDir, "transcript-dir", "", "directory to watch for transcript JSON files")
	flag.StringVar(&ov.OutputDir, "output-dir", "", "directory for preprocessed output files")
	flag.Parse()

	// Config
	cfg, err := config.Load(ov)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("atc-engine starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database (optional)
	var db *database.DB
	if cfg.DatabaseURL != "" {
		dbLog := log.With().Str("component", "database").Logger()
		db, err = database.Connect(ctx, cfg.DatabaseURL, dbLog)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
	} else {
		log.Info().Msg("no database configured, persistence disabled")
	}

	// Transmission filter
	f, err := filter.New(cfg.FilterOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build transmission filter")
	}

	// Worker pool
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.OutputDir).Msg("failed to create output directory")
	}
	poolLog := log.With().Str("component", "pool").Logger()
	pool := process.NewPool(process.Options{
		DB:         db,
		Writer:     process.NewWriter(cfg.OutputDir),
		Filter:     f,
		NormConfig: cfg.NormalizeConfig(),
		Workers:    cfg.Workers,
		QueueSize:  cfg.QueueSize,
		Log:        poolLog,
	})
	pool.Start()

	// Transcript watcher
	watchLog := log.With().Str("component", "watcher").Logger()
	watcher := ingest.NewWatcher(pool, cfg.TranscriptDir, cfg.Backfill, watchLog)
	if err := watcher.Start(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.TranscriptDir).Msg("failed to start transcript watcher")
	}

	// HTTP Server
	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(cfg, api.Deps{
		DB:         db,
		Pool:       pool,
		Watcher:    watcher,
		Filter:     f,
		NormConfig: cfg.NormalizeConfig(),
	}, version, startTime, httpLog)

	// Start HTTP server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	// Stop accepting new files, then drain the queue before the server goes
	// away so in-flight videos still land on disk.
	watcher.Stop()
	pool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	stats := pool.FilterStats()
	log.Info().
		Int("total", stats.Total).
		Int("kept", stats.Kept).
		Int("excluded", stats.Excluded).
		Float64("exclusion_rate", stats.ExclusionRate).
		Msg("atc-engine stopped")
}
