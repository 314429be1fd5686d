// Package config reads service configuration from prefixed environment variables
// Must* panics through the logger when a required value is absent or malformed
// May* logs a warning and falls back to the default
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"lectern/internal/platform/logger"
	pstrings "lectern/internal/platform/strings"
)

// Conf is a namespaced view over the environment, e.g. Prefix("SCRIPTURE_")
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view reading under prefix+p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Name is the prefix this view reads under
func (c Conf) Name() string { return c.prefix }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// Has reports whether key holds a non blank value
func (c Conf) Has(key string) bool { return c.lookup(key) != "" }

// may parses key with parse; blank gives def, a parse failure warns and gives def
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Err(err).
			Str("key", c.key(key)).
			Str("value", s).
			Str("default", fmt.Sprint(def)).
			Msg("invalid config value; using default")
		return def
	}
	return v
}

// must parses key with parse and panics when it is blank or invalid
func must[T any](c Conf, key string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", c.key(key)).Str("value", s).Msg("invalid required env")
	}
	return v
}

func asString(s string) (string, error) { return s, nil }

func absURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%q is not an absolute URL", s)
	}
	return u, nil
}

func port(s string) (string, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("port %q outside 1..65535", s)
	}
	return ":" + s, nil
}

// MustString returns the trimmed value of key
func (c Conf) MustString(key string) string { return must(c, key, asString) }

// MustURL returns key parsed as an absolute URL
func (c Conf) MustURL(key string) *url.URL { return must(c, key, absURL) }

// MustPort returns a listen address such as ":4000"
func (c Conf) MustPort(key string) string { return must(c, key, port) }

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return may(c, key, def, asString) }

// MayURL returns the value when it is an absolute URL
func (c Conf) MayURL(key, def string) string {
	return may(c, key, def, func(s string) (string, error) {
		_, err := absURL(s)
		return s, err
	})
}

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayBool accepts anything strconv.ParseBool does
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration accepts time.ParseDuration syntax ("90s", "24h")
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	return pstrings.IfEmpty(pstrings.SplitCSV(c.lookup(key)), def)
}

// MayEnum returns the lowercased value when it is one of allowed, def when blank, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

func panicf(c Conf, err error) {
	logger.Get().Panic().Err(err).Str("prefix", c.prefix).Msg("invalid configuration")
}
