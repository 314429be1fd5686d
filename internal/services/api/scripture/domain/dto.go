// Package domain holds scripture API inputs, outputs and the port handlers consume
package domain

import (
	"context"

	"lectern/internal/adapters/scripture"
)

// BiblesQuery filters the translation catalog by language; blank lists all
type BiblesQuery struct {
	Lang string `query:"lang" validate:"omitempty,max=16"`
}

// BooksQuery lists the books of a translation
type BooksQuery struct {
	Lang        string `query:"lang" validate:"omitempty,max=16"`
	Translation string `query:"translation" validate:"omitempty,max=64"`
	Grouped     bool   `query:"grouped"`
}

// ChaptersQuery lists the chapters of one book
type ChaptersQuery struct {
	Lang        string `query:"lang" validate:"omitempty,max=16"`
	Translation string `query:"translation" validate:"omitempty,max=64"`
	Book        string `query:"book" validate:"required,max=16"`
}

// ChapterQuery fetches one chapter's text
type ChapterQuery struct {
	Lang        string `query:"lang" validate:"omitempty,max=16"`
	Translation string `query:"translation" validate:"omitempty,max=64"`
	Chapter     string `query:"chapter" validate:"required,max=32"`
}

// SearchQuery searches a translation; a blank q yields no hits
type SearchQuery struct {
	Lang        string `query:"lang" validate:"omitempty,max=16"`
	Translation string `query:"translation" validate:"omitempty,max=64"`
	Q           string `query:"q" validate:"omitempty,max=200"`
}

// Translated pairs a value with the translation it was read from
type Translated[T any] struct {
	Translation string `json:"translation"`
	Items       T      `json:"items"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	ListBibles(ctx context.Context, lang string) (scripture.Result[[]scripture.Bible], error)
	GetBooks(ctx context.Context, translation, lang string) (scripture.Result[[]scripture.Book], error)
	GetGroupedBooks(ctx context.Context, translation, lang string) (scripture.Result[[]scripture.BookGroup], error)
	GetChapters(ctx context.Context, translation, lang, bookID string) (scripture.Result[[]scripture.Chapter], error)
	GetChapterContent(ctx context.Context, translation, lang, chapterID string) (scripture.Result[scripture.ChapterContent], error)
	Search(ctx context.Context, translation, lang, query string) (scripture.Result[[]scripture.SearchHit], error)
}

var _ ServicePort = (*scripture.Adapter)(nil)
