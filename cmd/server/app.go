package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rohitid33/sprint-rail/internal/config"
	"github.com/rohitid33/sprint-rail/internal/platform/postgres"
	"github.com/rohitid33/sprint-rail/internal/service"
)

// application holds the wired dependencies of a running server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	callerID uuid.UUID

	contentService service.ContentService
	reviewService  service.ReviewService
}

// newApplication opens the database, runs migrations, and builds the
// service graph.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	callerID, err := uuid.Parse(cfg.Auth.CallerID)
	if err != nil {
		return nil, fmt.Errorf("invalid caller ID %q: %w", cfg.Auth.CallerID, err)
	}

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(ctx, db, logger); err != nil {
		closeQuietly(db, logger)
		return nil, err
	}

	cardStore := postgres.NewCardStore(db, logger)

	contentService, err := service.NewContentService(cardStore, db, logger)
	if err != nil {
		closeQuietly(db, logger)
		return nil, fmt.Errorf("failed to build content service: %w", err)
	}

	reviewService, err := service.NewReviewService(cardStore, db, logger)
	if err != nil {
		closeQuietly(db, logger)
		return nil, fmt.Errorf("failed to build review service: %w", err)
	}

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		callerID:       callerID,
		contentService: contentService,
		reviewService:  reviewService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		closeQuietly(app.db, app.logger)
	}
}

func closeQuietly(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
