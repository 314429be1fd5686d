package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	chx "lectern/internal/platform/store/ch"
	"lectern/internal/platform/store/pg"
	"lectern/internal/platform/store/sqlite"
)

// pgBackoff is the wait schedule between postgres pings; tests shrink it
var pgBackoff = func() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 150 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// openPG opens the pool and waits until it answers a ping, so a postgres still starting does not fail boot
func openPG(ctx context.Context, cfg PGConfig, s *Store) (TxRunner, error) {
	pc := pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns}
	if cfg.LogSQL {
		pc.Tracer = pg.NewTracer(s.Log, time.Duration(cfg.SlowQueryMs)*time.Millisecond)
	}
	pool, err := pg.Open(ctx, pc, nil)
	if err != nil {
		return nil, err
	}

	retries := cfg.ConnectRetries
	if retries == 0 {
		retries = 20
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	attempt := 0
	ping := func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return pool.Ping(pctx)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(pgBackoff(), retries-1), ctx)
	err = backoff.RetryNotify(ping, policy, func(err error, wait time.Duration) {
		s.Log.Debug().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("postgres not ready")
	})
	if err != nil {
		pool.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempt, err)
	}
	return newPGAdapter(pool), nil
}

func openSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLDB, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.Path, BusyTimeout: cfg.BusyTimeout})
	if err != nil {
		return nil, err
	}
	return NewSQLDB(db), nil
}

func openCH(ctx context.Context, cfg CHConfig) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.URL,
		ClientInfo: chx.BuildClientInfo(cfg.ClientName, cfg.ClientTag),
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
