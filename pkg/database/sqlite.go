// Package database opens the registry's sqlite store and applies its SQL
// migrations at startup. The registry runs on a single database file per
// municipality, so WAL journaling and a busy timeout cover the concurrency
// the verification counter produces.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Config holds the connection settings for the registry database
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps the sql.DB handle on the registry database file
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// registryDSN builds the sqlite DSN: WAL journaling, a busy timeout so
// concurrent staff actions queue instead of failing, and foreign keys on
// for the submission/document/history relations.
func registryDSN(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
}

// New opens the registry database and verifies the connection
func New(cfg Config, logger *zap.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", registryDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open registry database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping registry database: %w", err)
	}

	logger.Info("Registry database opened", zap.String("path", cfg.Path))
	return &DB{DB: sqlDB, logger: logger}, nil
}

// WithTransaction runs fn inside a transaction, committing on nil and
// rolling back on error or panic. The migrator uses this so a failed
// migration leaves no partial schema behind.
func (db *DB) WithTransaction(fn func(*sql.Tx) error) error {
	tx, err := db.DB.Begin()
	if err != nil {
		db.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		db.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Close closes the registry database
func (db *DB) Close() error {
	db.logger.Info("Closing registry database")
	return db.DB.Close()
}
