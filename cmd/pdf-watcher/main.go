package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lllllllleong/ocrdocumentflow/internal/config"
	"github.com/Lllllllleong/ocrdocumentflow/internal/services"
	"github.com/Lllllllleong/ocrdocumentflow/internal/watcher"
	"github.com/joho/godotenv"
)

func main() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A .env file is optional; the environment itself wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration.", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.WatchDir); err != nil {
		slog.Error("Watch directory is not accessible.", "watchDir", cfg.WatchDir, "error", err)
		os.Exit(1)
	}
	slog.Info("PDF watcher starting up.", "watchDir", cfg.WatchDir, "inputFile", cfg.InputFilename)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := services.NewPipeline(ctx, cfg)
	if err != nil {
		slog.Error("Critical error during pipeline initialization.", "error", err)
		os.Exit(1)
	}

	w, err := watcher.New(cfg.WatchDir, cfg.InputPath())
	if err != nil {
		slog.Error("Critical error during watcher initialization.", "error", err)
		os.Exit(1)
	}

	if err := w.Run(ctx, pipeline.HandleCreate); err != nil {
		slog.Error("Watcher terminated with error.", "error", err)
		os.Exit(1)
	}
	slog.Info("Watcher stopped. Exiting.")
}
