// Package store opens the optional storage backends used by lectern
// postgres and sqlite back the durable content cache, clickhouse receives fetch audit events
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lectern/internal/platform/logger"
)

// Store holds whichever backends were enabled; the zero value has none
type Store struct {
	// Log is handed to subclients; the zero logger discards
	Log logger.Logger

	PG   TxRunner
	Lite *SQLDB
	CH   Clickhouse
}

// Row is a single scannable row
type Row interface {
	Scan(dest ...any) error
}

// Rows is an iterable result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports the effect of a write
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what the SQL cache backend runs statements through; sqlite and postgres both satisfy it
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also run fn inside one transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the batch insert and query seam the audit sink writes through
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// DBHandle hands out the database/sql handle goose migrates through
type DBHandle interface{ DB() *sql.DB }

// Option adjusts the Store before any backend opens
type Option func(*Store) error

// WithLogger sets the logger handed to subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open opens every enabled backend in cfg; on failure the ones already open are closed
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	var err error
	if cfg.PG.Enabled {
		if s.PG, err = openPG(ctx, cfg.PG, s); err != nil {
			return nil, err
		}
	}
	if cfg.SQLite.Enabled {
		if s.Lite, err = openSQLite(ctx, cfg.SQLite); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	if cfg.CH.Enabled {
		if s.CH, err = openCH(ctx, cfg.CH); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

type seam struct {
	name string
	v    any
}

// seams lists open backends in opening order
func (s *Store) seams() []seam {
	var out []seam
	if s.PG != nil {
		out = append(out, seam{"pg", s.PG})
	}
	if s.Lite != nil {
		out = append(out, seam{"sqlite", s.Lite})
	}
	if s.CH != nil {
		out = append(out, seam{"clickhouse", s.CH})
	}
	return out
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, sm := range s.seams() {
		if p, ok := sm.v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes open backends in reverse opening order
func (s *Store) Close(context.Context) error {
	var errs []error
	all := s.seams()
	for i := len(all) - 1; i >= 0; i-- {
		if c, ok := all[i].v.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", all[i].name, err))
			}
		}
	}
	return errors.Join(errs...)
}
