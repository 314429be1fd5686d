// Package module wires bundled documents into the API using modkit
package module

import (
	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/documents/domain"
	documentshttp "lectern/internal/services/api/documents/http"
)

// Module implements the documents module
type Module struct {
	modkit.Base
	svc domain.ServicePort
}

// New constructs the documents module over deps.Documents
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{svc: deps.Documents}
	m.Base = modkit.NewBase(
		[]modkit.Option{modkit.WithName("documents"), modkit.WithPrefix("/documents")},
		opts,
		func(r httpkit.Router) { documentshttp.Register(r, m.svc, deps.Tokens) },
	)
	m.SetPorts(m.svc)
	return m
}
