package store

import (
	"time"

	"lectern/internal/platform/config"
)

// Config aggregates per backend configuration; a disabled backend stays nil on the Store
type Config struct {
	AppName string

	PG     PGConfig     `envPrefix:"PGSQL_"`
	SQLite SQLiteConfig `envPrefix:"SQLITE_"`
	CH     CHConfig     `envPrefix:"CLICKHOUSE_"`
}

// PGConfig configures the postgres pool behind the durable cache
type PGConfig struct {
	Enabled        bool          `env:"ENABLED"`
	URL            string        `env:"DBURL"`
	MaxConns       int32         `env:"MAX_CONNS" envDefault:"4"`
	LogSQL         bool          `env:"LOG_SQL"`
	SlowQueryMs    int           `env:"SLOW_MS" envDefault:"500"`
	ConnectRetries uint64        `env:"CONNECT_RETRIES" envDefault:"20"`
	PingTimeout    time.Duration `env:"PING_TIMEOUT" envDefault:"3s"`
}

// SQLiteConfig configures the embedded database
type SQLiteConfig struct {
	Enabled     bool          `env:"ENABLED"`
	Path        string        `env:"PATH" envDefault:".cache/lectern/cache.db"`
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT" envDefault:"5s"`
}

// CHConfig configures the clickhouse audit sink
type CHConfig struct {
	Enabled    bool   `env:"ENABLED"`
	URL        string `env:"DBURL"`
	ClientName string
	ClientTag  string
}

// ConfigFromEnv decodes SERVICE_PGSQL_*, SERVICE_SQLITE_* and SERVICE_CLICKHOUSE_* under root
// an unset ENABLED follows whether the backend's location variable is set
func ConfigFromEnv(root config.Conf, clientTag string) (Config, error) {
	svc := root.Prefix("SERVICE_")
	var c Config
	if err := config.Load(svc, &c); err != nil {
		return Config{}, err
	}
	if pg := svc.Prefix("PGSQL_"); !pg.Has("ENABLED") {
		c.PG.Enabled = pg.Has("DBURL")
	}
	if lite := svc.Prefix("SQLITE_"); !lite.Has("ENABLED") {
		c.SQLite.Enabled = lite.Has("PATH")
	}
	if chc := svc.Prefix("CLICKHOUSE_"); !chc.Has("ENABLED") {
		c.CH.Enabled = chc.Has("DBURL")
	}
	c.AppName = "lectern-" + clientTag
	c.CH.ClientName, c.CH.ClientTag = "lectern", clientTag
	return c, nil
}
