package scripture

import (
	"time"

	"lectern/internal/core/cacheaside"
	"lectern/internal/core/contenttree"
)

// Bible is one translation in the upstream catalog
type Bible struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Name         string `json:"name"`
	Language     string `json:"language,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Book is one book of a translation
type Book struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Name         string `json:"name"`
	NameLong     string `json:"nameLong,omitempty"`
	Testament    string `json:"testament,omitempty"`
}

// Chapter is one entry of a book's chapter list
type Chapter struct {
	ID        string `json:"id"`
	BookID    string `json:"bookId"`
	Number    string `json:"number"`
	Reference string `json:"reference"`
}

// Verse is a normalized verse
type Verse = contenttree.Verse

// ChapterContent is a chapter's full text; verses keep document order
type ChapterContent struct {
	ID        string  `json:"id"`
	BookID    string  `json:"bookId"`
	Number    string  `json:"number"`
	Reference string  `json:"reference"`
	Verses    []Verse `json:"verses"`
}

// SearchHit is one verse matched by a query
// ID is "<verseId>:<query>" so one verse found by two queries yields two identities
type SearchHit struct {
	ID        string `json:"id"`
	VerseID   string `json:"verseId"`
	BookID    string `json:"bookId"`
	ChapterID string `json:"chapterId"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Snippet   string `json:"snippet,omitempty"`
}

// Result wraps an adapter value with its provenance
type Result[T any] struct {
	Translation string            `json:"translation,omitempty"`
	Value       T                 `json:"value"`
	Source      cacheaside.Source `json:"source"`
	WrittenAt   time.Time         `json:"writtenAt"`
}

func wrap[T any](translation string, r cacheaside.Result[T]) Result[T] {
	return Result[T]{Translation: translation, Value: r.Value, Source: r.Source, WrittenAt: r.WrittenAt}
}
