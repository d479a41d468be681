// Package repository implements the storage contract on top of database/sql.
// PostgreSQL (through pgx) and SQLite (through go-sqlite3) are supported.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Dialect is the SQL flavour behind a DSN.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

const sqlitePrefix = "sqlite3://"

var ErrUnsupportedDSN = errors.New("unsupported database dsn")

// ParseDSN returns the dialect, the database/sql driver name and the
// driver-specific data source for dsn.
func ParseDSN(dsn string) (Dialect, string, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, "pgx", dsn, nil
	case strings.HasPrefix(dsn, sqlitePrefix):
		path := strings.TrimPrefix(dsn, sqlitePrefix)
		if path == "" {
			return "", "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		return SQLite, "sqlite3", path, nil
	}

	return "", "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
}

// InitDB opens and pings the database behind dsn.
func InitDB(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, Dialect, error) {
	dialect, driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == SQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}

	logger.Info("database connected", zap.String("dialect", string(dialect)))

	return db, dialect, nil
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "..."
	}
	return "..."
}
