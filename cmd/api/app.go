package main

import (
	"fmt"

	"github.com/Trinhvhao/event-management/internal/config"
	"github.com/Trinhvhao/event-management/internal/database"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// bootstrap loads configuration, builds the logger and connects to the database.
func bootstrap() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logger := config.NewLogger(cfg.Logging)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, logger, nil, err
	}
	return cfg, logger, db, nil
}

func closeDB(db *gorm.DB, logger zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close database")
	}
}
