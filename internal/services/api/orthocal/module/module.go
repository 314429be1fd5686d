// Package module wires the Orthodox calendar into the API using modkit
package module

import (
	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/orthocal/domain"
	orthocalhttp "lectern/internal/services/api/orthocal/http"
)

// Module implements the orthocal module
type Module struct {
	modkit.Base
	svc domain.ServicePort
}

// New constructs the orthocal module over deps.Orthocal
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{svc: deps.Orthocal}
	m.Base = modkit.NewBase(
		[]modkit.Option{modkit.WithName("orthocal"), modkit.WithPrefix("/orthocal")},
		opts,
		func(r httpkit.Router) { orthocalhttp.Register(r, m.svc, deps.Tokens) },
	)
	m.SetPorts(m.svc)
	return m
}
