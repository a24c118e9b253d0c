package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"guild-dashboard/internal/config"
	"guild-dashboard/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and bounds its connection pool.
// Callers beyond the pool size wait for a free connection.
func Open(cfg config.DBConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenSQLite opens a sqlite file with foreign keys enforced, creating the
// parent directory if needed.
func OpenSQLite(path string, log logrus.FieldLogger) (*gorm.DB, error) {
	return Open(config.DBConfig{Driver: config.DriverSQLite, SQLitePath: path, MaxConns: 1}, log)
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.PostgresDSN()), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		return sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; sqlite is derived from the models.
func Migrate(db *gorm.DB, cfg config.DBConfig, log logrus.FieldLogger) error {
	if cfg.Driver == config.DriverPostgres {
		return MigrateUp(cfg.PostgresDSN(), log)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}
	return nil
}

// Ping reports whether the pool can still reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(log logrus.FieldLogger) logger.Interface {
	return logger.New(
		log.WithField("component", "gorm"),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
