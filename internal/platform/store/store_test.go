package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"lectern/internal/platform/config"
	"lectern/internal/platform/testkit"
)

func TestOpenSQLiteOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := Open(ctx, Config{SQLite: SQLiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "c.db")}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Lite == nil || s.PG != nil || s.CH != nil {
		t.Fatalf("unexpected seams lite=%v pg=%T ch=%T", s.Lite, s.PG, s.CH)
	}
	if err := s.Guard(ctx); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenBadPGURL(t *testing.T) {
	t.Parallel()
	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if err == nil || s != nil {
		t.Fatalf("expected error and nil store, got %v %v", s, err)
	}
}

func TestOpenBadCHClosesEarlierBackends(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), Config{
		SQLite: SQLiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "c.db")},
		CH:     CHConfig{Enabled: true, URL: ""},
	})
	if err == nil {
		t.Fatalf("expected clickhouse config error")
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatalf("logger not applied")
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenOptionError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	if _, err := Open(context.Background(), Config{}, func(*Store) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want option error, got %v", err)
	}
}

func TestGuardNil(t *testing.T) {
	t.Parallel()
	var s *Store
	if s.Guard(context.Background()) == nil {
		t.Fatalf("nil store should fail guard")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "")
	t.Setenv("SERVICE_SQLITE_PATH", "/tmp/lectern.db")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "clickhouse://localhost:9000/default")
	t.Setenv("SERVICE_CLICKHOUSE_ENABLED", "false")

	c, err := ConfigFromEnv(config.New(), "api")
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if c.PG.Enabled {
		t.Fatalf("pg should be disabled without a url")
	}
	if !c.SQLite.Enabled || c.SQLite.Path != "/tmp/lectern.db" {
		t.Fatalf("sqlite = %+v", c.SQLite)
	}
	if c.CH.Enabled || c.CH.URL == "" {
		t.Fatalf("explicit ENABLED=false should win, ch = %+v", c.CH)
	}
	if c.CH.ClientTag != "api" || c.AppName != "lectern-api" {
		t.Fatalf("tags = %q %q", c.CH.ClientTag, c.AppName)
	}
	if c.PG.MaxConns != 4 || c.PG.ConnectRetries != 20 || c.SQLite.BusyTimeout != 5*time.Second {
		t.Fatalf("defaults = %+v %+v", c.PG, c.SQLite)
	}

	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "lots")
	if _, err := ConfigFromEnv(config.New(), "api"); err == nil {
		t.Fatalf("malformed MAX_CONNS should fail")
	}
}

func TestOpenPG_GivesUpAfterRetries(t *testing.T) {
	testkit.Swap(t, &pgBackoff, func() *backoff.ExponentialBackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval, b.MaxInterval = time.Millisecond, time.Millisecond
		return b
	})
	_, err := Open(context.Background(), Config{PG: PGConfig{
		Enabled:        true,
		URL:            "postgres://lectern@127.0.0.1:1/lectern?connect_timeout=1",
		ConnectRetries: 2,
		PingTimeout:    200 * time.Millisecond,
	}})
	if err == nil || !strings.Contains(err.Error(), "after 2 attempts") {
		t.Fatalf("err = %v", err)
	}
}
