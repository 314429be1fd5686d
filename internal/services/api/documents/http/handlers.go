// Package http provides http transport for bundled liturgical documents
package http

import (
	stdhttp "net/http"
	"time"

	"lectern/internal/adapters/documents"
	"lectern/internal/core/reqtoken"
	"lectern/internal/modkit/httpkit"
	perr "lectern/internal/platform/errors"
	"lectern/internal/services/api/documents/domain"
)

// Register mounts document endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, tokens *reqtoken.Tracker) {
	h := &handlers{svc: s, tokens: tokens}

	httpkit.Get(r, "/", h.list)
	httpkit.GetQuery[domain.DocQuery](r, "/{category}/{slug}", h.get)
	httpkit.GetQuery[domain.SearchQuery](r, "/{category}/{slug}/search", h.search)
}

type handlers struct {
	svc    domain.ServicePort
	tokens *reqtoken.Tracker
}

func docID(r *stdhttp.Request) string {
	return httpkit.Param(r, "category") + "/" + httpkit.Param(r, "slug")
}

func (h *handlers) load(r *stdhttp.Request, lang string) (*documents.Document, error) {
	id := docID(r)
	doc, err := h.svc.Load(r.Context(), id, httpkit.Lang(r, lang))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, perr.NotFoundf("document %s not found", id)
	}
	return doc, nil
}

// GET /documents: bundled documents with their languages
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	k := httpkit.Begin(r, h.tokens, "documents.list")
	return k.Wrap(h.svc.List(), httpkit.Bundled, time.Time{}), nil
}

// GET /documents/{category}/{slug}: one document, falling back to the default language, then any language
func (h *handlers) get(r *stdhttp.Request, in domain.DocQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "documents.get")
	doc, err := h.load(r, in.Lang)
	if err != nil {
		return nil, k.Fail(err)
	}
	return k.Wrap(doc, httpkit.Bundled, time.Time{}), nil
}

// GET /documents/{category}/{slug}/search: matching lines inside one document, ignoring case and diacritics
func (h *handlers) search(r *stdhttp.Request, in domain.SearchQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "documents.search")
	doc, err := h.load(r, in.Lang)
	if err != nil {
		return nil, k.Fail(err)
	}
	v := domain.SearchView{Resolved: doc.Resolved, Query: in.Q, Hits: documents.Search(doc.Markdown, in.Q, in.Limit)}
	return k.Wrap(v, httpkit.Bundled, time.Time{}), nil
}
