package orthocal

import (
	"time"

	"lectern/internal/platform/config"
)

// DefaultBaseURL is the OCA calendar root on orthocal.info
const DefaultBaseURL = "https://orthocal.info/api/oca"

// Config is read from ORTHOCAL_*
type Config struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://orthocal.info/api/oca"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// ConfigFromEnv decodes ORTHOCAL_*
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := config.Load(config.New().Prefix("ORTHOCAL_"), &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
