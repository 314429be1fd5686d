package cacheaside

import (
	"time"

	"lectern/internal/platform/cache"
	"lectern/internal/platform/config"
)

// TTLTable holds the freshness window per content family
type TTLTable struct {
	Catalog  time.Duration `env:"TTL_CATALOG" envDefault:"24h"`
	Books    time.Duration `env:"TTL_BOOKS" envDefault:"24h"`
	Chapters time.Duration `env:"TTL_CHAPTERS" envDefault:"12h"`
	Content  time.Duration `env:"TTL_CONTENT" envDefault:"6h"`
	Search   time.Duration `env:"TTL_SEARCH" envDefault:"30m"`
	Calendar time.Duration `env:"TTL_CALENDAR" envDefault:"12h"`
}

// DefaultTTL mirrors the envDefault tags
func DefaultTTL() TTLTable {
	return TTLTable{
		Catalog:  24 * time.Hour,
		Books:    24 * time.Hour,
		Chapters: 12 * time.Hour,
		Content:  6 * time.Hour,
		Search:   30 * time.Minute,
		Calendar: 12 * time.Hour,
	}
}

// DefaultFlightTimeout bounds a shared upstream fetch when Config leaves it unset
const DefaultFlightTimeout = 30 * time.Second

// Config is injected at construction
type Config struct {
	Namespace string
	TTL       TTLTable

	// FlightTimeout bounds one shared fetch, which no single caller can cancel
	FlightTimeout time.Duration
}

func (c Config) flightTimeout() time.Duration {
	if c.FlightTimeout <= 0 {
		return DefaultFlightTimeout
	}
	return c.FlightTimeout
}

// DefaultConfig uses the default namespace and TTL table
func DefaultConfig() Config {
	return Config{Namespace: cache.DefaultNamespace, TTL: DefaultTTL()}
}

// ConfigFromEnv reads CACHE_NAMESPACE and CACHE_TTL_*
func ConfigFromEnv() (Config, error) {
	c := config.New().Prefix("CACHE_")
	var ttl TTLTable
	if err := config.Load(c, &ttl); err != nil {
		return Config{}, err
	}
	return Config{
		Namespace:     c.MayString("NAMESPACE", cache.DefaultNamespace),
		TTL:           ttl,
		FlightTimeout: c.MayDuration("FLIGHT_TIMEOUT", DefaultFlightTimeout),
	}, nil
}
