package cache

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/pressly/goose/v3"

	perr "lectern/internal/platform/errors"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies the embedded cache schema for d to db
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	var gd goose.Dialect
	switch d {
	case DialectSQLite:
		gd = goose.DialectSQLite3
	case DialectPostgres:
		gd = goose.DialectPostgres
	default:
		return perr.Configf("cache: no migrations for dialect %q", d)
	}

	fsys, err := fs.Sub(migrationsFS, "migrations/"+string(d))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeConfig, "cache: migrations")
	}
	provider, err := goose.NewProvider(gd, db, fsys)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "cache: goose provider")
	}
	if _, err := provider.Up(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "cache: goose up")
	}
	return nil
}
