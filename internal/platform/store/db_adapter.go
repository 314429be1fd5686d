package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLDB adapts a database/sql handle (sqlite) to TxRunner
type SQLDB struct {
	db *sql.DB
}

var _ TxRunner = (*SQLDB)(nil)

// NewSQLDB wraps db
func NewSQLDB(db *sql.DB) *SQLDB { return &SQLDB{db: db} }

// DB returns the underlying handle
func (s *SQLDB) DB() *sql.DB { return s.db }

// Ping checks the handle answers
func (s *SQLDB) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite: nil handle")
	}
	return s.db.PingContext(ctx)
}

// Close closes the handle
func (s *SQLDB) Close() error { return s.db.Close() }

// Exec runs a write
func (s *SQLDB) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	return execOn(ctx, s.db, query, args...)
}

// Query runs a read returning many rows
func (s *SQLDB) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return queryOn(ctx, s.db, query, args...)
}

// QueryRow runs a read returning at most one row
func (s *SQLDB) QueryRow(ctx context.Context, query string, args ...any) Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// Tx runs fn inside a transaction, rolling back on error
func (s *SQLDB) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func execOn(ctx context.Context, c sqlConn, query string, args ...any) (CommandTag, error) {
	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	return resultTag{n: n}, nil
}

func queryOn(ctx context.Context, c sqlConn, query string, args ...any) (Rows, error) {
	rs, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

type sqlTx struct{ tx *sql.Tx }

func (t sqlTx) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	return execOn(ctx, t.tx, query, args...)
}

func (t sqlTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return queryOn(ctx, t.tx, query, args...)
}

func (t sqlTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type resultTag struct{ n int64 }

func (t resultTag) String() string      { return fmt.Sprintf("OK %d", t.n) }
func (t resultTag) RowsAffected() int64 { return t.n }
