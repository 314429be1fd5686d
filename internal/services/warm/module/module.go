// Package module provides the warm module implementation
package module

import (
	"lectern/internal/modkit"
	phttp "lectern/internal/platform/net/http"

	"lectern/internal/services/warm/domain"
	"lectern/internal/services/warm/service"
)

// Ports defines the warm module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the warm module
type Module struct {
	ports Ports
}

// New constructs the warm module from the shared adapters and deps.Cfg
// It does not mount any routes.
func New(deps modkit.Deps, opts Options) *Module {
	svc := service.New(deps.Calendar, deps.Scripture, service.Config{
		Workers:      opts.Workers,
		DelayPerIt:   opts.DelayPerItem,
		MaxRetries:   opts.MaxRetries,
		RetryBase:    opts.RetryBase,
		ItemTimeout:  opts.ItemTimeout,
		MaxRangeDays: opts.MaxRangeDays,
	})
	return &Module{ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "warm" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op as warm has no routes
func (m *Module) MountRoutes(_ phttp.Router) {}
