package modkit

import (
	"net/http"

	"lectern/internal/modkit/httpkit"
	str "lectern/internal/platform/strings"
)

// Base carries the state every API module repeats and implements Module on top of it
type Base struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  any
	routes func(httpkit.Router)
	extra  []func(httpkit.Router)
}

// NewBase applies defaults then caller options; routes register before any WithRegister hook
func NewBase(defaults []Option, opts []Option, routes func(httpkit.Router)) Base {
	b := Base{routes: routes}
	for _, o := range defaults {
		o(&b)
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// MountRoutes mounts the module under its prefix with its middleware
func (m *Base) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		if len(m.mws) > 0 {
			rr.Use(m.mws...)
		}
		if m.routes != nil {
			m.routes(rr)
		}
		for _, fn := range m.extra {
			fn(rr)
		}
	})
}

// Name returns the module name
func (m *Base) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the normalized route prefix
func (m *Base) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the exported ports
func (m *Base) Ports() any { return m.ports }

// SetPorts replaces the exported ports
func (m *Base) SetPorts(p any) { m.ports = p }
