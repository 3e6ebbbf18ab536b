package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	DSN      string
	MaxConns int32
	// AppName shows up in pg_stat_activity.
	AppName string
	// ConnectAttempts bounds how often the first ping is retried while the
	// database is still starting. Zero means one attempt.
	ConnectAttempts int
}

const (
	pingTimeout  = 3 * time.Second
	firstBackoff = 500 * time.Millisecond
	maxBackoff   = 5 * time.Second
)

// New opens the pool used by every repository and waits until the server answers.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*pgxpool.Pool, error) {
	const op = "postgres.New"

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := waitReady(ctx, pool, cfg.ConnectAttempts, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pool, nil
}

func waitReady(ctx context.Context, pool *pgxpool.Pool, attempts int, log *slog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = slog.Default()
	}

	backoff := firstBackoff
	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := pool.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts {
			return err
		}

		log.Warn("postgres not ready", slog.Int("attempt", i), slog.Duration("retry_in", backoff), slog.Any("err", err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}
