// Package main is the entry point for the study-card server: a hierarchical
// content store with spaced-repetition scheduling over HTTP.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/rohitid33/sprint-rail/internal/config"
	"github.com/rohitid33/sprint-rail/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.run(context.Background()); err != nil {
		appLogger.Error("server exited with error", "error", err)
		log.Fatalf("server exited with error: %v", err)
	}
}
