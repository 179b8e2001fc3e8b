// Package db opens the PostgreSQL connection pool used by the server.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// ConnConfig parses dsn and, when name is non-empty, points it at that
// database instead of the one in the DSN.
func ConnConfig(dsn, name string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if name != "" {
		cfg.Database = name
	}
	return cfg, nil
}

// Open returns a pooled *sql.DB on the pgx stdlib driver after a successful
// ping. The caller owns the pool and must Close it.
func Open(ctx context.Context, dsn, name string) (*sql.DB, error) {
	cfg, err := ConnConfig(dsn, name)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cfg)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}
