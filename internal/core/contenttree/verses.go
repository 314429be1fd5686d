package contenttree

import (
	"strings"

	"lectern/internal/core/textnorm"
)

// Verse is one extracted scripture verse
// Text is whitespace collapsed and never empty
type Verse struct {
	ID        string `json:"id"`
	BookID    string `json:"bookId"`
	ChapterID string `json:"chapterId"`
	Number    string `json:"number"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

const verseType = "verse"

var (
	// textAliases hold a node's own text
	textAliases = []string{"text", "value"}
	// childAliases hold a node's children, visited in this order
	childAliases = []string{"content", "items", "children"}
)

// ExtractVerses walks content depth first and returns verses in document order
// A verse node is not walked further; its text is gathered from the node and all its descendants.
// Container nodes contribute no text. Verses without an id or without text are dropped.
func ExtractVerses(content any, bookID, chapterID string) []Verse {
	var out []Verse
	var walk func(n any)
	walk = func(n any) {
		switch t := n.(type) {
		case []any:
			for _, c := range t {
				walk(c)
			}
		case map[string]any:
			if strings.EqualFold(Str(t, "type"), verseType) {
				if v, ok := extractVerse(t, bookID, chapterID); ok {
					out = append(out, v)
				}
				return
			}
			for _, a := range childAliases {
				if kids, ok := t[a].([]any); ok {
					walk(kids)
				}
			}
		}
	}
	walk(content)
	return out
}

// VerseText gathers and normalizes the text under node
// only text fields of objects count; bare strings in child arrays are skipped
func VerseText(node any) string {
	return textnorm.Join(gather(node, nil))
}

func gather(n any, parts []string) []string {
	switch t := n.(type) {
	case []any:
		for _, c := range t {
			parts = gather(c, parts)
		}
	case map[string]any:
		for _, a := range textAliases {
			if s, ok := t[a].(string); ok {
				parts = append(parts, s)
			}
		}
		for _, a := range childAliases {
			if kids, ok := t[a].([]any); ok {
				parts = gather(kids, parts)
			}
		}
	}
	return parts
}

func extractVerse(node map[string]any, bookID, chapterID string) (Verse, bool) {
	attrs, _ := Obj(node, "attrs")

	id := Str(node, "id", "verseId")
	if id == "" {
		id = Str(attrs, "verseId", "id")
	}
	text := VerseText(node)
	if id == "" || text == "" {
		return Verse{}, false
	}

	reference := Str(node, "reference")
	if reference == "" {
		reference = Str(attrs, "sid")
	}
	number := Str(node, "number")
	if number == "" {
		number = Str(attrs, "number")
	}
	if number == "" {
		number = NumberFrom(reference, id)
	}
	if reference == "" {
		reference = bookID + " " + number
	}

	return Verse{
		ID:        id,
		BookID:    bookID,
		ChapterID: chapterID,
		Number:    number,
		Reference: reference,
		Text:      text,
	}, true
}

// NumberFrom derives a verse number from "John 3:16" style references, else from "JHN.3.16" ids
func NumberFrom(reference, id string) string {
	if i := strings.LastIndex(reference, ":"); i >= 0 {
		return strings.TrimSpace(reference[i+1:])
	}
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}
