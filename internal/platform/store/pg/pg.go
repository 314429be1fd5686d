// Package pg opens the pgx pool behind the postgres cache backend
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool; a nil Tracer turns statement logging off
type Config struct {
	URL      string
	MaxConns int32
	Tracer   *Tracer
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies tune and creates the pool; connections are made lazily
func Open(ctx context.Context, cfg Config, tune func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	// cache rows are small and short lived
	pcfg.MaxConnIdleTime = 5 * time.Minute
	if cfg.Tracer != nil {
		pcfg.ConnConfig.Tracer = cfg.Tracer
	}
	if tune != nil {
		tune(pcfg)
	}
	return newPool(ctx, pcfg)
}
