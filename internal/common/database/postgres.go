// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nanolez-eduai/internal/common/config"

	_ "github.com/lib/pq"
)

const (
	defaultPostgresOpenConns = 10
	defaultPostgresIdleConns = 2
	postgresConnLifetime     = 5 * time.Minute
)

// PostgresClient holds the roadmap database pool.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("postgres host and database are required")
	}
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return wrapPostgres(db, cfg), nil
}

// wrapPostgres applies the pool limits, falling back to small defaults.
func wrapPostgres(db *sql.DB, cfg config.PostgresConfig) *PostgresClient {
	open := cfg.MaxConnections
	if open <= 0 {
		open = defaultPostgresOpenConns
	}
	idle := cfg.MaxIdle
	if idle <= 0 || idle > open {
		idle = min(defaultPostgresIdleConns, open)
	}
	db.SetMaxOpenConns(open)
	db.SetMaxIdleConns(idle)
	db.SetConnMaxLifetime(postgresConnLifetime)
	db.SetConnMaxIdleTime(postgresConnLifetime)
	return &PostgresClient{DB: db}
}

// Ping doubles as the readiness check for roadmap storage.
func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
