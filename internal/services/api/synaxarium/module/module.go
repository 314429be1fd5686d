// Package module wires the synaxarium into the API using modkit
package module

import (
	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/synaxarium/domain"
	synaxariumhttp "lectern/internal/services/api/synaxarium/http"
)

// Module implements the synaxarium module
type Module struct {
	modkit.Base
	svc domain.ServicePort
}

// New constructs the synaxarium module over deps.Synaxarium
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{svc: deps.Synaxarium}
	m.Base = modkit.NewBase(
		[]modkit.Option{modkit.WithName("synaxarium"), modkit.WithPrefix("/synaxarium")},
		opts,
		func(r httpkit.Router) { synaxariumhttp.Register(r, m.svc, deps.Tokens) },
	)
	m.SetPorts(m.svc)
	return m
}
