// Package modkit provides module wiring and core deps
package modkit

import (
	"context"

	"lectern/internal/adapters/calendar"
	"lectern/internal/adapters/documents"
	"lectern/internal/adapters/orthocal"
	"lectern/internal/adapters/scripture"
	"lectern/internal/adapters/synaxarium"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/reqtoken"
	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	Cache  *cacheaside.Orchestrator
	Tokens *reqtoken.Tracker

	Scripture  *scripture.Adapter
	Calendar   *calendar.Adapter
	Orthocal   *orthocal.Adapter
	Synaxarium *synaxarium.Resolver
	Documents  *documents.Registry

	// Ready probes the cache backend for the meta module; nil skips the check
	Ready func(context.Context) error
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional adapters
func (d Deps) ZeroOK() bool { return true }
