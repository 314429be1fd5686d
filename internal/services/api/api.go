// Package api provides the HTTP API for lectern
package api

import (
	"net/http"

	phttp "lectern/internal/platform/net/http"
	"lectern/internal/platform/net/middleware"

	"lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/modkit/module"
	"lectern/internal/modkit/swaggerkit"

	cachemod "lectern/internal/services/api/cache/module"
	calendarmod "lectern/internal/services/api/calendar/module"
	documentsmod "lectern/internal/services/api/documents/module"
	metamod "lectern/internal/services/api/meta/module"
	orthocalmod "lectern/internal/services/api/orthocal/module"
	scripturemod "lectern/internal/services/api/scripture/module"
	synaxariummod "lectern/internal/services/api/synaxarium/module"
)

// Options selects what Mount exposes besides the modules
type Options struct {
	Deps           modkit.Deps
	EnableSwagger  bool
	EnableProfiler bool
}

// Modules builds the API modules in mount order
func Modules(deps modkit.Deps) []module.Module {
	return []module.Module{
		metamod.New(deps),
		scripturemod.New(deps),
		calendarmod.New(deps),
		orthocalmod.New(deps),
		synaxariummod.New(deps),
		documentsmod.New(deps),
		cachemod.New(deps),
	}
}

// Mount puts /health at the root, the modules under /api/v1 and optionally the docs and pprof
func Mount(r phttp.Router, opt Options) {
	r.Handle("/health", middleware.Heartbeat("/health")(http.NotFoundHandler()))
	swaggerkit.Mount(r, "/api/v1", opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	mods := Modules(opt.Deps)
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(v1 httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(v1)
		}
	})
}
