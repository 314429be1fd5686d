// Package sqlite opens the pure Go (modernc) sqlite database used by the local cache backend
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "lectern/internal/platform/errors"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Config configures the database file
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DSN builds the driver DSN with WAL, NORMAL sync and a busy timeout
func DSN(cfg Config) string {
	bt := cfg.BusyTimeout
	if bt <= 0 {
		bt = 5 * time.Second
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", bt.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + filepath.Clean(cfg.Path) + "?" + q.Encode()
}

// Open creates parent directories, opens the file and pings it
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, perr.Configf("sqlite path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "create sqlite dir %s", dir)
		}
	}
	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "open sqlite db")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "ping sqlite db")
	}
	return db, nil
}
