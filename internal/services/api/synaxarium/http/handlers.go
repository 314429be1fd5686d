// Package http provides http transport for the synaxarium
package http

import (
	stdhttp "net/http"
	"time"

	"lectern/internal/core/reqtoken"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/synaxarium/domain"
)

// Register mounts the synaxarium endpoint on the given router
func Register(r httpkit.Router, s domain.ServicePort, tokens *reqtoken.Tracker) {
	h := &handlers{svc: s, tokens: tokens}

	httpkit.GetQuery[domain.DayQuery](r, "/", h.day)
}

type handlers struct {
	svc    domain.ServicePort
	tokens *reqtoken.Tracker
}

// GET /synaxarium: commemorations of a coptic day with language fallback
func (h *handlers) day(r *stdhttp.Request, in domain.DayQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "synaxarium")
	res := h.svc.Get(r.Context(), in.Month, in.Day, httpkit.Lang(r, in.Lang))
	return k.Wrap(res, httpkit.Bundled, time.Time{}), nil
}
