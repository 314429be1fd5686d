package store

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// pgxQuerier is the statement surface shared by *pgxpool.Pool and pgx.Tx
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgQuerier adapts a pool or a transaction to RowQuerier
// statement logging happens in the pool's pgx tracer
type pgQuerier struct{ q pgxQuerier }

func (p pgQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return p.q.Exec(ctx, sql, args...)
}

func (p pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := p.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

func (p pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.q.QueryRow(ctx, sql, args...)
}

// pgAdapter is the TxRunner over a pgx pool
type pgAdapter struct {
	pgQuerier
	pool *pgxpool.Pool
}

func newPGAdapter(pool *pgxpool.Pool) *pgAdapter {
	return &pgAdapter{pgQuerier: pgQuerier{pool}, pool: pool}
}

func (a *pgAdapter) Ping(ctx context.Context) error { return a.pool.Ping(ctx) }

func (a *pgAdapter) Close() error {
	a.pool.Close()
	return nil
}

// DB is a database/sql view over the same pool for goose
func (a *pgAdapter) DB() *sql.DB { return stdlib.OpenDBFromPool(a.pool) }

// Tx commits when fn returns nil and rolls back otherwise
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return pgx.BeginFunc(ctx, a.pool, func(tx pgx.Tx) error { return fn(pgQuerier{tx}) })
}

// pgRows narrows pgx.Rows to Rows
type pgRows struct{ pgx.Rows }

func (r pgRows) Columns() []string {
	fds := r.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = fd.Name
	}
	return out
}
