// Package content opens the content access stack shared by the lectern binaries
//
// It owns the platform store, the durable cache, the cache-aside orchestrator, the audit
// sink and every adapter built on top of them.
package content

import (
	"context"
	"errors"

	"lectern/internal/adapters/calendar"
	"lectern/internal/adapters/documents"
	"lectern/internal/adapters/orthocal"
	"lectern/internal/adapters/scripture"
	"lectern/internal/adapters/synaxarium"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/reqtoken"
	"lectern/internal/modkit"
	"lectern/internal/platform/cache"
	"lectern/internal/platform/config"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	"lectern/internal/platform/store"
	"lectern/internal/services/audit"
)

// Options selects the client tag and the config root
type Options struct {
	// Service tags clickhouse client info and logs, e.g. "api"
	Service string

	// Root is the unprefixed config view; zero means config.New()
	Root config.Conf

	// Store skips store.Open when set; the caller keeps ownership
	Store *store.Store

	// Cache skips cache.Open when set
	Cache cache.Store
}

// Stack is the opened content layer
type Stack struct {
	Store *store.Store
	Cache cache.Store
	Orch  *cacheaside.Orchestrator
	Audit *audit.Sink

	Tokens     *reqtoken.Tracker
	Scripture  *scripture.Adapter
	Calendar   *calendar.Adapter
	Orthocal   *orthocal.Adapter
	Synaxarium *synaxarium.Resolver
	Documents  *documents.Registry

	cfg       config.Conf
	log       *logger.Logger
	ownsStore bool
}

// Open builds the stack from the environment
func Open(ctx context.Context, opt Options) (*Stack, error) {
	log := logger.Named("content")
	s := &Stack{cfg: opt.Root, log: log, Store: opt.Store}

	if s.Store == nil {
		sc, err := store.ConfigFromEnv(opt.Root, opt.Service)
		if err != nil {
			return nil, err
		}
		st, err := store.Open(ctx, sc, store.WithLogger(*log))
		if err != nil {
			return nil, err
		}
		s.Store = st
		s.ownsStore = true
	}

	var err error
	s.Cache = opt.Cache
	if s.Cache == nil {
		cc, cerr := cache.ConfigFromEnv()
		if cerr != nil {
			_ = s.Close(ctx)
			return nil, cerr
		}
		if s.Cache, err = cache.Open(ctx, cc, s.Store); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		log.Info().Str("backend", cc.Backend).Msg("cache opened")
	}

	auditCfg, err := audit.ConfigFromEnv()
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	var ins audit.Inserter
	if s.Store.CH != nil {
		if err := audit.Ensure(ctx, s.Store.CH); err != nil {
			_ = s.Close(ctx)
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "create audit table")
		}
		ins = s.Store.CH
	}
	s.Audit = audit.New(ins, auditCfg)

	orchCfg, err := cacheaside.ConfigFromEnv()
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	s.Orch = cacheaside.New(s.Cache, orchCfg, cacheaside.WithObserver(s.Audit.Observe))

	if err := s.openAdapters(); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	s.Tokens = reqtoken.NewTracker()
	return s, nil
}

func (s *Stack) openAdapters() error {
	sc, err := scripture.ConfigFromEnv()
	if err != nil {
		return err
	}
	cc, err := calendar.ConfigFromEnv()
	if err != nil {
		return err
	}
	oc, err := orthocal.ConfigFromEnv()
	if err != nil {
		return err
	}
	s.Scripture = scripture.New(sc, s.Orch)
	s.Calendar = calendar.New(cc, s.Orch, calendar.WithAttemptObserver(s.Audit.Attempt))
	s.Orthocal = orthocal.New(oc, s.Orch)
	s.Synaxarium = synaxarium.New(synaxarium.Bundled())
	s.Documents = documents.Bundled()
	return nil
}

// Deps exposes the stack to modkit modules
func (s *Stack) Deps() modkit.Deps {
	return modkit.Deps{
		Log:        *s.log,
		Cfg:        s.cfg,
		Cache:      s.Orch,
		Tokens:     s.Tokens,
		Scripture:  s.Scripture,
		Calendar:   s.Calendar,
		Orthocal:   s.Orthocal,
		Synaxarium: s.Synaxarium,
		Documents:  s.Documents,
		Ready:      s.Ready,
	}
}

const readyProbeKey = "lectern:ready"

// Ready reads a probe key from the cache and pings the configured store seams
func (s *Stack) Ready(ctx context.Context) error {
	if s.Cache != nil {
		if _, _, err := s.Cache.Get(ctx, readyProbeKey); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "cache backend")
		}
	}
	if s.Store != nil && (s.Store.PG != nil || s.Store.Lite != nil || s.Store.CH != nil) {
		if err := s.Store.Guard(ctx); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "store")
		}
	}
	return nil
}

// Close flushes the audit sink and closes the store when Open created it
func (s *Stack) Close(ctx context.Context) error {
	var errs []error
	if s.Audit != nil {
		if err := s.Audit.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.ownsStore && s.Store != nil {
		if err := s.Store.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
