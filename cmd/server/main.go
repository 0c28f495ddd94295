// Package main runs the essaylab API: usage quotas, invite and promo
// credits, the guest trial gate and vocabulary flashcards.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/essaylab-api/internal/config"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	if err := run(*migrate); err != nil {
		slog.Error("essaylab-api exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(migrateCmd string) error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("guest_store", cfg.Guest.Store),
		slog.Int("gemini_keys", len(cfg.LLM.GeminiAPIKeys)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		if err := postgres.RunMigrations(db, migrateCmd, log); err != nil {
			return fmt.Errorf("migration %q failed: %w", migrateCmd, err)
		}
		log.Info("migration completed", slog.String("command", migrateCmd))
		return nil
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
