// Package database opens and migrates the service's gorm connection.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Trinhvhao/event-management/internal/config"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN builds the Postgres connection string from configuration.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

// Connect opens a Postgres connection pool through gorm.
func Connect(cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := Open(postgres.Open(DSN(cfg)), logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Open opens a gorm connection for any dialector with the service's logger and clock.
func Open(dialector gorm.Dialector, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Department{},
		&models.Category{},
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.Feedback{},
	}
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
