package database

import (
	"fmt"
	"time"

	pkgLogger "github.com/room911/access-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxIdleConns    = 5
	maxOpenConns    = 50
	connMaxLifetime = time.Hour
	connMaxIdleTime = 5 * time.Minute
	slowQueryLimit  = 200 * time.Millisecond
)

// Connect opens the PostgreSQL connection pool. Query logging is silenced in
// production; elsewhere slow queries and failures surface through slog.
func Connect(databaseURL, environment string) (*gorm.DB, error) {
	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 pkgLogger.NewGormLogger(logLevel, slowQueryLimit),
		SkipDefaultTransaction: true, // the response wrapper owns transaction boundaries
		PrepareStmt:            true,
		TranslateError:         true, // surface duplicate keys as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
