// Package db opens tenant and platform databases and exposes the
// repositories that load persisted rows for the service layer.
package db

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// MemoryPath makes the sqlite driver keep every database in memory.
	MemoryPath = ":memory:"
)

// Config describes how tenant and platform databases are reached.
type Config struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	SSLMode        string
	Path           string // sqlite directory or MemoryPath
	PlatformDBName string
	TenantDBPrefix string
	LogLevel       string
	MaxOpenConns   int
	MaxIdleConns   int
	PingRetries    uint64
}

// Dialector returns the GORM dialector for the named database.
func (c *Config) Dialector(dbName string) (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, dbName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		if c.Path == MemoryPath {
			return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)), nil
		}
		return sqlite.Open(filepath.Join(c.Path, dbName+".db")), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Open connects to the named database, waits until it answers a ping and
// migrates the given entities.
func Open(ctx context.Context, cfg *Config, dbName string, logger *zap.Logger, entities ...any) (*gorm.DB, error) {
	dialector, err := cfg.Dialector(dbName)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger, ParseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(100*time.Millisecond),
		), cfg.PingRetries),
		ctx,
	)
	if err := backoff.Retry(func() error { return sqlDB.PingContext(ctx) }, policy); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if len(entities) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(entities...); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
