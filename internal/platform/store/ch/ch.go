// Package ch wraps the clickhouse-go native client with the small surface lectern uses
package ch

import (
	"context"
	"fmt"
	"strings"

	perr "lectern/internal/platform/errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse client
type Config struct {
	URL        string
	ClientInfo clickhouse.ClientInfo
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH is a clickhouse connection
type CH struct {
	conn driver.Conn
}

// openConn is a seam for tests
var openConn = clickhouse.Open

// Open parses the DSN and opens a connection; it does not ping
func Open(_ context.Context, cfg Config) (*CH, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, perr.Configf("clickhouse url is empty")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "parse clickhouse dsn")
	}
	if len(cfg.ClientInfo.Products) > 0 {
		opts.ClientInfo = cfg.ClientInfo
	}
	conn, err := openConn(opts)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open clickhouse")
	}
	return &CH{conn: conn}, nil
}

// Ping checks the server answers
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Insert appends rows to table in one batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", table))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "prepare batch %s", table)
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return perr.Wrapf(err, perr.ErrorCodeDB, "append batch %s", table)
		}
	}
	if err := batch.Send(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "send batch %s", table)
	}
	return nil
}

// Exec runs a statement without results
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Query runs a query and returns its rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Close closes the connection
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
