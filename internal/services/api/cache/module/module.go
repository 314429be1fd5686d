// Package module wires cache administration into the API using modkit
package module

import (
	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/cache/domain"
	cachehttp "lectern/internal/services/api/cache/http"
)

// Module implements the cache module
type Module struct {
	modkit.Base
	svc domain.ServicePort
}

// New constructs the cache module over deps.Cache
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{svc: deps.Cache}
	m.Base = modkit.NewBase(
		[]modkit.Option{modkit.WithName("cache"), modkit.WithPrefix("/cache")},
		opts,
		func(r httpkit.Router) { cachehttp.Register(r, m.svc) },
	)
	m.SetPorts(m.svc)
	return m
}
