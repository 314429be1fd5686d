package config

import (
	"github.com/caarlos0/env/v11"

	perr "lectern/internal/platform/errors"
)

// Load decodes env tags on target under this view's prefix
// fields use `env:"TTL_BOOKS" envDefault:"24h"` style tags
func Load[T any](c Conf, target *T) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: c.prefix}); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeConfig, "parse env %s*", c.prefix)
	}
	return nil
}

// MustLoad is Load that panics through the logger on error
func MustLoad[T any](c Conf, target *T) {
	if err := Load(c, target); err != nil {
		panicf(c, err)
	}
}
