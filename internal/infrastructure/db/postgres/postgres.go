package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config captures the settings for establishing a Postgres connection.
type Config struct {
	URL string
	// Verbose switches gorm to statement-level logging. Keep off in
	// production; statements may contain user data.
	Verbose bool
}

// Connect opens a gorm connection against Postgres and verifies it with a
// ping so a bad DSN fails at startup rather than on first request.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres: database URL is required")
	}

	logMode := gormlogger.Silent
	if cfg.Verbose {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(logMode)},
	)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return db, nil
}
