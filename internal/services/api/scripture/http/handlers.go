// Package http provides http transport for scripture
package http

import (
	stdhttp "net/http"

	"lectern/internal/adapters/scripture"
	"lectern/internal/core/reqtoken"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/scripture/domain"
)

// Register mounts scripture endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, tokens *reqtoken.Tracker) {
	h := &handlers{svc: s, tokens: tokens}

	httpkit.GetQuery[domain.BiblesQuery](r, "/bibles", h.bibles)
	httpkit.GetQuery[domain.BooksQuery](r, "/books", h.books)
	httpkit.GetQuery[domain.ChaptersQuery](r, "/chapters", h.chapters)
	httpkit.GetQuery[domain.ChapterQuery](r, "/chapter", h.chapter)
	httpkit.GetQuery[domain.SearchQuery](r, "/search", h.search)
}

type handlers struct {
	svc    domain.ServicePort
	tokens *reqtoken.Tracker
}

func sourced[T any](k httpkit.Ticket, res scripture.Result[T], err error) (any, error) {
	if err != nil {
		return nil, k.Fail(err)
	}
	return k.Wrap(domain.Translated[T]{Translation: res.Translation, Items: res.Value}, res.Source, res.WrittenAt), nil
}

// GET /scripture/bibles: translation catalog, optionally filtered by language
func (h *handlers) bibles(r *stdhttp.Request, in domain.BiblesQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "scripture.bibles")
	res, err := h.svc.ListBibles(r.Context(), in.Lang)
	return sourced(k, res, err)
}

// GET /scripture/books: books of a translation, flat or grouped by canonical section
func (h *handlers) books(r *stdhttp.Request, in domain.BooksQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "scripture.books")
	tr := scripture.ResolveTranslation(in.Translation, in.Lang)
	if in.Grouped {
		res, err := h.svc.GetGroupedBooks(r.Context(), tr, in.Lang)
		return sourced(k, res, err)
	}
	res, err := h.svc.GetBooks(r.Context(), tr, in.Lang)
	return sourced(k, res, err)
}

// GET /scripture/chapters: chapters of one book
func (h *handlers) chapters(r *stdhttp.Request, in domain.ChaptersQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "scripture.chapters")
	tr := scripture.ResolveTranslation(in.Translation, in.Lang)
	res, err := h.svc.GetChapters(r.Context(), tr, in.Lang, in.Book)
	return sourced(k, res, err)
}

// GET /scripture/chapter: full text of one chapter as ordered verses
func (h *handlers) chapter(r *stdhttp.Request, in domain.ChapterQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "scripture.chapter")
	tr := scripture.ResolveTranslation(in.Translation, in.Lang)
	res, err := h.svc.GetChapterContent(r.Context(), tr, in.Lang, in.Chapter)
	return sourced(k, res, err)
}

// GET /scripture/search: verse search within a translation
func (h *handlers) search(r *stdhttp.Request, in domain.SearchQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "scripture.search")
	res, err := h.svc.Search(r.Context(), in.Translation, in.Lang, in.Q)
	return sourced(k, res, err)
}
