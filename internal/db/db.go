package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defaultConnectTimeout = 30 * time.Second

// Options describe how Open connects to the catalog database. Zero MaxConns
// and MaxIdleTime keep the pgxpool defaults.
type Options struct {
	URL            string
	MaxConns       int32
	MaxIdleTime    time.Duration
	ConnectTimeout time.Duration

	// Migrate applies pending schema migrations before the pool is opened.
	Migrate bool
	Logger  *zap.SugaredLogger
}

// Open migrates the schema when asked, then returns a pinged connection pool.
func Open(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(opts)
	if err != nil {
		return nil, err
	}

	if opts.Migrate {
		applied, err := Migrate(opts.URL)
		if err != nil {
			return nil, err
		}
		if opts.Logger != nil {
			opts.Logger.Infow("migrations checked", "applied", applied)
		}
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Infow("database connection pool established",
			"max_conns", cfg.MaxConns, "max_idle_time", cfg.MaxConnIdleTime.String())
	}
	return pool, nil
}

func poolConfig(opts Options) (*pgxpool.Config, error) {
	if opts.URL == "" {
		return nil, errors.New("database URL is empty")
	}

	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MaxIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxIdleTime
	}
	return cfg, nil
}
