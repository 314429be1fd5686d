// Package modkit holds what every API module shares: dependencies, options and the Base that mounts routes
package modkit

import (
	"net/http"

	phttp "lectern/internal/platform/net/http"
)

// Module is the surface the API mounts; it matches module.Module
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Option adjusts a module before it is mounted
type Option func(*Base)

// WithName sets the name used in logs and the port registry
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix mounts the module under prefix
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares appends per module middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mws = append(b.mws, mw...) }
}

// WithPorts sets the ports a module exports to others
func WithPorts(p any) Option { return func(b *Base) { b.ports = p } }

// WithRegister adds routes after the module's own
func WithRegister(fn func(phttp.Router)) Option {
	return func(b *Base) { b.extra = append(b.extra, fn) }
}
