package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDatabaseURL is returned by Connect when neither Config.URL nor
// DATABASE_URL names a database.
var ErrNoDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// Config holds database connection configuration. Zero values fall back to
// the environment and the pool defaults below.
type Config struct {
	URL      string
	LogLevel string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 30 * time.Minute
	slowQueryThreshold     = 200 * time.Millisecond
)

// Connect opens a pooled PostgreSQL connection. SQL is logged through the
// default slog logger at the level CMS_LOG_LEVEL selects.
func Connect(cfg Config) (*gorm.DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		dsn = URL()
	}
	if dsn == "" {
		return nil, ErrNoDatabaseURL
	}

	level := cfg.LogLevel
	if level == "" {
		level = os.Getenv("CMS_LOG_LEVEL")
	}

	database, err := gorm.Open(
		postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}),
		&gorm.Config{Logger: newLogger(level)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, defaultMaxOpenConns))
	sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, defaultMaxIdleConns))
	sqlDB.SetConnMaxLifetime(orDefault(cfg.ConnMaxLifetime, defaultConnMaxLifetime))

	return database, nil
}

func newLogger(level string) logger.Interface {
	return logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug),
		logger.Config{
			SlowThreshold: slowQueryThreshold,
			LogLevel:      LogMode(level),
		},
	)
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

// LogMode maps a CMS log level to the gorm logger level.
// Anything other than debug or warn is silent.
func LogMode(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "warn":
		return logger.Warn
	default:
		return logger.Silent
	}
}

// URL returns DATABASE_URL, or "" when unset.
func URL() string {
	return os.Getenv("DATABASE_URL")
}
