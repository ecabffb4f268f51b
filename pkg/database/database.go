// Package database manages the PostgreSQL pool behind the case record store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/casetrail/casetrail/pkg/lifecycle"
)

// System exposes the connection pool and ties its open and close to the
// process lifecycle.
type System interface {
	// Connection returns the underlying pool.
	Connection() *sql.DB
	// Start registers the startup ping and the shutdown close.
	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	pool        *sql.DB
	logger      *slog.Logger
	pingTimeout time.Duration
}

// New opens the pool without connecting; the first connection is made by the
// startup ping or the first query, whichever comes first.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &system{
		pool:        pool,
		logger:      logger.With("system", "database"),
		pingTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (s *system) Connection() *sql.DB {
	return s.pool
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		s.ping(lc.Context())
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.close()
	})

	return nil
}

func (s *system) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()

	if err := s.pool.PingContext(ctx); err != nil {
		s.logger.Error("database unreachable", "error", err)
		return
	}

	s.logger.Info("database connection established")
}

func (s *system) close() {
	s.logger.Info("closing database pool")

	if err := s.pool.Close(); err != nil {
		s.logger.Error("database close failed", "error", err)
	}
}
