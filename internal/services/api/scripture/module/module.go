// Package module wires scripture into the API using modkit
package module

import (
	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/scripture/domain"
	scripturehttp "lectern/internal/services/api/scripture/http"
)

// Module implements the scripture module
type Module struct {
	modkit.Base
	svc domain.ServicePort
}

// New constructs the scripture module over deps.Scripture
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{svc: deps.Scripture}
	m.Base = modkit.NewBase(
		[]modkit.Option{modkit.WithName("scripture"), modkit.WithPrefix("/scripture")},
		opts,
		func(r httpkit.Router) { scripturehttp.Register(r, m.svc, deps.Tokens) },
	)
	m.SetPorts(m.svc)
	return m
}
