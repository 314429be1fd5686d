// Package http provides http transport for cache administration
package http

import (
	stdhttp "net/http"

	"lectern/internal/modkit/httpkit"
	ptime "lectern/internal/platform/time"
	"lectern/internal/services/api/cache/domain"
)

// Register mounts cache endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.GetQuery[domain.KeyQuery](r, "/", h.peek)
	httpkit.DeleteQuery[domain.KeyQuery](r, "/", h.clear)
}

type handlers struct{ svc domain.ServicePort }

// GET /cache: inspect one stored envelope without fetching
func (h *handlers) peek(r *stdhttp.Request, in domain.KeyQuery) (any, error) {
	env, ok := h.svc.Peek(r.Context(), in.Key)
	v := domain.EntryView{Key: in.Key, Present: ok}
	if ok {
		v.WrittenAt = ptime.Ptr(env.WrittenAt)
		v.Bytes = len(env.Payload)
	}
	return v, nil
}

// DELETE /cache: drop one cache key so the next read refetches
func (h *handlers) clear(r *stdhttp.Request, in domain.KeyQuery) (any, error) {
	if err := h.svc.Clear(r.Context(), in.Key); err != nil {
		return nil, err
	}
	return domain.ClearView{Key: in.Key, Cleared: true}, nil
}
