package calendar

import (
	"time"

	"lectern/internal/platform/config"
)

// DefaultBaseURL is the coptic.io root
const DefaultBaseURL = "https://coptic.io"

// Config is read from CALENDAR_*
type Config struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://coptic.io"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// ConfigFromEnv decodes CALENDAR_*
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := config.Load(config.New().Prefix("CALENDAR_"), &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
