package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// Config sizes the connection pool. Zero fields take the DefaultConfig values.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// DefaultConfig suits one API instance against a small Postgres
func DefaultConfig(url string) *Config {
	return &Config{
		URL:             url,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig(c.URL)
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = d.MaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = d.MaxIdleConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = d.ConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = d.ConnMaxIdleTime
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = d.PingTimeout
	}
	return c
}

// ConnectionPool owns the *sql.DB shared by every Postgres repository
type ConnectionPool struct {
	db     *sql.DB
	cfg    Config
	logger *slog.Logger
}

// NewConnectionPool opens the pool and pings it once, so a wrong URL or a
// database that is still starting fails here rather than on the first request
func NewConnectionPool(ctx context.Context, config *Config, logger *slog.Logger) (*ConnectionPool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := config.withDefaults()

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	cp := &ConnectionPool{db: db, cfg: cfg, logger: logger}
	if err := cp.Health(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connected",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
	)
	return cp, nil
}

// GetDB returns the underlying pool
func (cp *ConnectionPool) GetDB() *sql.DB {
	return cp.db
}

// Close closes every connection; later calls are no-ops
func (cp *ConnectionPool) Close() error {
	if cp.db == nil {
		return nil
	}
	err := cp.db.Close()
	cp.db = nil
	return err
}

// Health pings the database within the configured timeout
func (cp *ConnectionPool) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, cp.cfg.PingTimeout)
	defer cancel()
	return cp.db.PingContext(ctx)
}
