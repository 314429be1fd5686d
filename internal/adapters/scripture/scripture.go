// Package scripture reads translations, books, chapters and search results from API.Bible
//
// Every call goes through the cache-aside orchestrator and stores the normalized value,
// so a cached chapter is served without touching the content tree again.
package scripture

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"lectern/internal/adapters/upstream"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/contenttree"
	"lectern/internal/core/langs"
	"lectern/internal/core/textnorm"
	perr "lectern/internal/platform/errors"
)

const (
	service     = "scripture"
	searchLimit = 25
)

// Adapter is the scripture content source
type Adapter struct {
	http *upstream.Client
	key  string
	orch *cacheaside.Orchestrator
	ttl  cacheaside.TTLTable
}

// New builds an Adapter; the API key is checked on each request, not here
func New(cfg Config, orch *cacheaside.Orchestrator) *Adapter {
	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	return &Adapter{
		http: upstream.New(upstream.Options{Service: service, BaseURL: base, Timeout: cfg.Timeout}),
		key:  strings.TrimSpace(cfg.APIKey),
		orch: orch,
		ttl:  orch.TTL(),
	}
}

// tree fetches path with the api-key header
func (a *Adapter) tree(ctx context.Context, path string, q url.Values) (any, error) {
	if a.key == "" {
		return nil, perr.Configf("scripture: missing API key, set SCRIPTURE_API_KEY")
	}
	v, err := a.http.GetTree(ctx, path, q, http.Header{"api-key": {a.key}})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, perr.Parsef("scripture: empty response for %s", path)
	}
	return v, nil
}

// data returns payload.data as a sequence or object, tolerating bare payloads
func data(v any) any {
	if m, ok := v.(map[string]any); ok {
		if d, ok := m["data"]; ok {
			return d
		}
	}
	return v
}

// ListBibles lists translations, optionally filtered by language
func (a *Adapter) ListBibles(ctx context.Context, lang string) (Result[[]Bible], error) {
	code := langs.Normalize(lang)
	qual := code
	if qual == "" {
		qual = "all"
	}
	q := url.Values{}
	if iso3 := iso639_3(code); iso3 != "" {
		q.Set("language", iso3)
	}
	r, err := cacheaside.Fetch(ctx, a.orch, "scripture:bibles:"+qual, a.ttl.Catalog, func(ctx context.Context) ([]Bible, error) {
		v, err := a.tree(ctx, "/bibles", q)
		if err != nil {
			return nil, err
		}
		out := []Bible{}
		for _, m := range contenttree.Objects(contenttree.Seq(data(v))) {
			b := Bible{
				ID:           contenttree.Str(m, "id"),
				Abbreviation: contenttree.Str(m, "abbreviationLocal", "abbreviation"),
				Name:         contenttree.Str(m, "nameLocal", "name"),
				Language:     contenttree.Str(m, "language"),
				Description:  contenttree.Str(m, "descriptionLocal", "description"),
			}
			if lm, ok := contenttree.Obj(m, "language"); ok {
				b.Language = contenttree.Str(lm, "id", "name")
			}
			if b.ID != "" {
				out = append(out, b)
			}
		}
		return out, nil
	})
	if err != nil {
		return Result[[]Bible]{}, err
	}
	return wrap("", r), nil
}

// iso639_3 maps lectern codes to the three letter codes the catalog filters on
func iso639_3(code string) string {
	if code == "" || code == langs.Coptic || code == langs.ArabicCoptic {
		return ""
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return ""
	}
	return base.ISO3()
}

// GetBooks lists the books of a translation
func (a *Adapter) GetBooks(ctx context.Context, translation, lang string) (Result[[]Book], error) {
	tr := ResolveTranslation(strings.TrimSpace(translation), lang)
	r, err := cacheaside.Fetch(ctx, a.orch, "scripture:"+tr+":books", a.ttl.Books, func(ctx context.Context) ([]Book, error) {
		v, err := a.tree(ctx, "/bibles/"+url.PathEscape(tr)+"/books", nil)
		if err != nil {
			return nil, err
		}
		out := []Book{}
		for _, m := range contenttree.Objects(contenttree.Seq(data(v))) {
			b := Book{
				ID:           contenttree.Str(m, "id"),
				Abbreviation: contenttree.Str(m, "abbreviation"),
				Name:         textnorm.Text(contenttree.Str(m, "name")),
				NameLong:     textnorm.Text(contenttree.Str(m, "nameLong")),
			}
			if b.ID == "" {
				continue
			}
			if b.Name == "" {
				b.Name = b.ID
			}
			b.Testament = testament(b.ID)
			out = append(out, b)
		}
		return out, nil
	})
	if err != nil {
		return Result[[]Book]{}, err
	}
	return wrap(tr, r), nil
}

// GetGroupedBooks is GetBooks passed through GroupBooks
func (a *Adapter) GetGroupedBooks(ctx context.Context, translation, lang string) (Result[[]BookGroup], error) {
	r, err := a.GetBooks(ctx, translation, lang)
	if err != nil {
		return Result[[]BookGroup]{}, err
	}
	return Result[[]BookGroup]{
		Translation: r.Translation,
		Value:       GroupBooks(r.Value),
		Source:      r.Source,
		WrittenAt:   r.WrittenAt,
	}, nil
}

func testament(id string) string {
	switch CanonicalGroup(id) {
	case GroupLaw, GroupHistory, GroupWisdom, GroupProphets:
		return "OT"
	case GroupOther:
		return ""
	}
	return "NT"
}

// GetChapters lists a book's chapters
func (a *Adapter) GetChapters(ctx context.Context, translation, lang, bookID string) (Result[[]Chapter], error) {
	tr := ResolveTranslation(strings.TrimSpace(translation), lang)
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return Result[[]Chapter]{}, perr.InvalidArgf("book is required")
	}
	key := "scripture:" + tr + ":" + bookID + ":chapters"
	r, err := cacheaside.Fetch(ctx, a.orch, key, a.ttl.Chapters, func(ctx context.Context) ([]Chapter, error) {
		v, err := a.tree(ctx, "/bibles/"+url.PathEscape(tr)+"/books/"+url.PathEscape(bookID)+"/chapters", nil)
		if err != nil {
			return nil, err
		}
		out := []Chapter{}
		for _, m := range contenttree.Objects(contenttree.Seq(data(v))) {
			c := Chapter{
				ID:        contenttree.Str(m, "id"),
				BookID:    contenttree.Str(m, "bookId"),
				Number:    contenttree.Str(m, "number"),
				Reference: contenttree.Str(m, "reference"),
			}
			if c.ID == "" {
				continue
			}
			if c.BookID == "" {
				c.BookID = bookID
			}
			if c.Number == "" {
				c.Number = contenttree.NumberFrom("", c.ID)
			}
			if c.Reference == "" {
				c.Reference = c.BookID + " " + c.Number
			}
			out = append(out, c)
		}
		return out, nil
	})
	if err != nil {
		return Result[[]Chapter]{}, err
	}
	return wrap(tr, r), nil
}

// GetChapterContent returns a chapter with its verses extracted from the content tree
func (a *Adapter) GetChapterContent(ctx context.Context, translation, lang, chapterID string) (Result[ChapterContent], error) {
	tr := ResolveTranslation(strings.TrimSpace(translation), lang)
	chapterID = strings.TrimSpace(chapterID)
	if chapterID == "" {
		return Result[ChapterContent]{}, perr.InvalidArgf("chapter is required")
	}
	q := url.Values{
		"content-type":   {"json"},
		"include-notes":  {"false"},
		"include-titles": {"false"},
	}
	key := "scripture:" + tr + ":chapter:" + chapterID
	r, err := cacheaside.Fetch(ctx, a.orch, key, a.ttl.Content, func(ctx context.Context) (ChapterContent, error) {
		v, err := a.tree(ctx, "/bibles/"+url.PathEscape(tr)+"/chapters/"+url.PathEscape(chapterID), q)
		if err != nil {
			return ChapterContent{}, err
		}
		d, ok := data(v).(map[string]any)
		if !ok {
			return ChapterContent{}, perr.Parsef("scripture: chapter %s payload is not an object", chapterID)
		}
		return ParseChapter(d, chapterID), nil
	})
	if err != nil {
		return Result[ChapterContent]{}, err
	}
	return wrap(tr, r), nil
}

// ParseChapter normalizes a chapter object; fallbackID is used when the payload has no id
func ParseChapter(d map[string]any, fallbackID string) ChapterContent {
	c := ChapterContent{
		ID:        contenttree.Str(d, "id"),
		BookID:    contenttree.Str(d, "bookId"),
		Number:    contenttree.Str(d, "number"),
		Reference: contenttree.Str(d, "reference"),
	}
	if c.ID == "" {
		c.ID = fallbackID
	}
	if c.BookID == "" {
		c.BookID, _, _ = strings.Cut(c.ID, ".")
	}
	if c.Number == "" {
		c.Number = contenttree.NumberFrom("", c.ID)
	}
	if c.Reference == "" {
		c.Reference = c.BookID + " " + c.Number
	}
	c.Verses = contenttree.ExtractVerses(d["content"], c.BookID, c.ID)
	if c.Verses == nil {
		c.Verses = []Verse{}
	}
	return c
}

// searchVerse is the cached form of a search match; hit ids are built per call
type searchVerse struct {
	ID        string `json:"id"`
	BookID    string `json:"bookId"`
	ChapterID string `json:"chapterId"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// Search runs a free text query capped at 25 hits; a blank query returns no hits without a request
// with neither translation nor lang the query's script picks the default translation
func (a *Adapter) Search(ctx context.Context, translation, lang, query string) (Result[[]SearchHit], error) {
	trimmed := strings.TrimSpace(query)
	explicit := strings.TrimSpace(translation)
	if explicit == "" && lang == "" {
		lang = langs.Guess(trimmed)
	}
	tr := ResolveTranslation(explicit, lang)
	if trimmed == "" {
		return Result[[]SearchHit]{Translation: tr, Value: []SearchHit{}, Source: cacheaside.SourceFresh, WrittenAt: time.Now()}, nil
	}

	key := "scripture:" + tr + ":search:" + strings.ToLower(trimmed)
	q := url.Values{"query": {trimmed}, "limit": {"25"}}
	r, err := cacheaside.Fetch(ctx, a.orch, key, a.ttl.Search, func(ctx context.Context) ([]searchVerse, error) {
		v, err := a.tree(ctx, "/bibles/"+url.PathEscape(tr)+"/search", q)
		if err != nil {
			return nil, err
		}
		d, _ := data(v).(map[string]any)
		out := []searchVerse{}
		for _, m := range contenttree.Objects(contenttree.Seq(d["verses"])) {
			sv := searchVerse{
				ID:        contenttree.Str(m, "id"),
				BookID:    contenttree.Str(m, "bookId"),
				ChapterID: contenttree.Str(m, "chapterId"),
				Reference: contenttree.Str(m, "reference"),
				Text:      textnorm.Text(contenttree.Str(m, "text")),
			}
			if sv.ID == "" {
				continue
			}
			out = append(out, sv)
			if len(out) == searchLimit {
				break
			}
		}
		return out, nil
	})
	if err != nil {
		return Result[[]SearchHit]{}, err
	}

	hits := make([]SearchHit, 0, len(r.Value))
	for _, sv := range r.Value {
		hits = append(hits, SearchHit{
			ID:        sv.ID + ":" + trimmed,
			VerseID:   sv.ID,
			BookID:    sv.BookID,
			ChapterID: sv.ChapterID,
			Reference: sv.Reference,
			Text:      sv.Text,
		})
	}
	return Result[[]SearchHit]{Translation: tr, Value: hits, Source: r.Source, WrittenAt: r.WrittenAt}, nil
}
