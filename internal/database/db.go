package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-railway/internal/config"
	"ms-railway/internal/database/migrations"
	"ms-railway/internal/logger"
)

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
}

// Open opens the SQLite file behind bun and applies connection pragmas.
// SQLite serializes writers; MaxOpenConns is normally 1.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	maxConns := cfg.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 1
	}
	sqldb.SetMaxOpenConns(maxConns)
	sqldb.SetMaxIdleConns(maxConns)
	sqldb.SetConnMaxLifetime(0)

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := sqldb.ExecContext(ctx, pragma); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	log.LogDatabase("OPEN", cfg.Path, fmt.Sprintf("sqlite ready (max_open_conns=%d)", maxConns))
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Prepare runs the embedded migrations according to cfg.
func Prepare(db *bun.DB, cfg config.DatabaseConfig, log *logger.Logger) error {
	if !cfg.AutoMigrate {
		log.Info("DATABASE", "Auto-migrate disabled, skipping migrations")
		return nil
	}

	runner := migrations.NewRunner(db, migrations.MigrateOptions{SeedData: cfg.Seed})
	if err := runner.RunMigrations(); err != nil {
		return err
	}

	version, _, err := runner.Version()
	if err != nil {
		return err
	}
	log.LogDatabase("MIGRATE", "schema_migrations", fmt.Sprintf("current version %d", version))
	return nil
}
