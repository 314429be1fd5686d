package cache

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/store"
)

// Dialect selects placeholder style and migration set for the SQL backend
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const table = "cache_entries"

// SQL stores entries in the cache_entries table of a sqlite or postgres database
// writes are upserts, last writer wins
type SQL struct {
	q   store.RowQuerier
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewSQL binds the store to a querier; the schema must already be migrated
func NewSQL(q store.RowQuerier, d Dialect) *SQL {
	var ph squirrel.PlaceholderFormat = squirrel.Question
	if d == DialectPostgres {
		ph = squirrel.Dollar
	}
	return &SQL{
		q:   q,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(ph),
		now: time.Now,
	}
}

// Get selects the value for key
func (s *SQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := s.sb.Select("value").From(table).Where(squirrel.Eq{"cache_key": key}).ToSql()
	if err != nil {
		return nil, false, perr.Wrap(err, perr.ErrorCodeDB, "cache: build select")
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, false, perr.FromSQL(err, "cache: get %q", key)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, perr.FromSQL(err, "cache: get %q", key)
		}
		return nil, false, nil
	}
	var v []byte
	if err := rows.Scan(&v); err != nil {
		return nil, false, perr.Wrapf(err, perr.ErrorCodeDB, "cache: scan %q", key)
	}
	return v, true, nil
}

// Set upserts the value for key
func (s *SQL) Set(ctx context.Context, key string, val []byte) error {
	if val == nil {
		val = []byte{}
	}
	query, args, err := s.sb.Insert(table).
		Columns("cache_key", "value", "updated_at").
		Values(key, val, s.now().UTC().UnixMilli()).
		Suffix("ON CONFLICT (cache_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "cache: build upsert")
	}
	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return perr.FromSQL(err, "cache: set %q", key)
	}
	return nil
}

// Delete removes the row for key
func (s *SQL) Delete(ctx context.Context, key string) error {
	query, args, err := s.sb.Delete(table).Where(squirrel.Eq{"cache_key": key}).ToSql()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "cache: build delete")
	}
	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return perr.FromSQL(err, "cache: delete %q", key)
	}
	return nil
}
