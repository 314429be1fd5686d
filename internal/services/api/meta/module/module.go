// Package module mounts the meta endpoints under /meta
package module

import (
	"time"

	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	metahttp "lectern/internal/services/api/meta/http"
)

// ServiceName is reported by health, version and service endpoints
const ServiceName = "lectern-api"

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{startedAt: time.Now()}
	m.Base = modkit.NewBase(
		[]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")},
		opts,
		func(r httpkit.Router) {
			metahttp.Register(r, metahttp.Deps{
				ServiceName: ServiceName,
				StartedAt:   m.startedAt,
				Probes:      []metahttp.Probe{{Name: "cache", Check: deps.Ready}},
			})
		},
	)
	return m
}
