// Package module wires the coptic calendar into the API using modkit
package module

import (
	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/calendar/domain"
	calendarhttp "lectern/internal/services/api/calendar/http"
)

// Module implements the calendar module
type Module struct {
	modkit.Base
	svc domain.ServicePort
}

// New constructs the calendar module over deps.Calendar
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{svc: deps.Calendar}
	m.Base = modkit.NewBase(
		[]modkit.Option{modkit.WithName("calendar"), modkit.WithPrefix("/calendar")},
		opts,
		func(r httpkit.Router) { calendarhttp.Register(r, m.svc, deps.Tokens) },
	)
	m.SetPorts(m.svc)
	return m
}
