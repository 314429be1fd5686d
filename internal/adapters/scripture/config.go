package scripture

import (
	"time"

	"lectern/internal/platform/config"
)

// DefaultBaseURL is the API.Bible v1 root
const DefaultBaseURL = "https://api.scripture.api.bible/v1"

// Config is read from SCRIPTURE_*; an empty APIKey only fails when a request is made
type Config struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.scripture.api.bible/v1"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// ConfigFromEnv decodes SCRIPTURE_*
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := config.Load(config.New().Prefix("SCRIPTURE_"), &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
