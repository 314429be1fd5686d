package cache

import (
	"context"
	"strings"
	"time"

	"lectern/internal/platform/config"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/store"
)

// Backend names accepted by CACHE_BACKEND
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config selects and tunes the backend, decoded from CACHE_* variables
type Config struct {
	Backend        string        `env:"BACKEND" envDefault:"file"`
	Dir            string        `env:"DIR" envDefault:".cache/lectern"`
	Namespace      string        `env:"NAMESPACE" envDefault:"lectern:cache:"`
	RetainMaxAge   time.Duration `env:"RETAIN_MAX_AGE"`
	RetainMaxBytes int64         `env:"RETAIN_MAX_BYTES"`
	S3             S3Config      `envPrefix:"S3_"`
}

// ConfigFromEnv decodes CACHE_* into a Config
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := config.Load(config.New().Prefix("CACHE_"), &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Open builds the backend named by cfg.Backend
// sqlite and postgres reuse the handles opened by the platform store and migrate them first
// an empty backend means file so entries survive restarts; memory must be named
// the returned Store is not namespaced; the orchestrator applies the namespace
func Open(ctx context.Context, cfg Config, st *store.Store) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendMemory:
		return NewMemory(), nil

	case "", BackendFile:
		return NewFile(cfg.Dir, WithRetention(cfg.RetainMaxAge, cfg.RetainMaxBytes))

	case BackendSQLite:
		if st == nil || st.Lite == nil {
			return nil, perr.Configf("cache: sqlite backend needs SERVICE_SQLITE_ENABLED")
		}
		if err := Migrate(ctx, st.Lite.DB(), DialectSQLite); err != nil {
			return nil, err
		}
		return NewSQL(st.Lite, DialectSQLite), nil

	case BackendPostgres:
		if st == nil || st.PG == nil {
			return nil, perr.Configf("cache: postgres backend needs SERVICE_PGSQL_ENABLED")
		}
		h, ok := st.PG.(store.DBHandle)
		if !ok {
			return nil, perr.Configf("cache: postgres seam has no database/sql handle")
		}
		db := h.DB()
		err := Migrate(ctx, db, DialectPostgres)
		_ = db.Close()
		if err != nil {
			return nil, err
		}
		return NewSQL(st.PG, DialectPostgres), nil

	case BackendS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix)

	default:
		return nil, perr.Configf("cache: unknown backend %q", cfg.Backend)
	}
}
