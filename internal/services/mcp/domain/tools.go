// Package domain defines the lectern MCP tools: schemas, inputs, outputs and handlers
package domain

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"lectern/internal/adapters/calendar"
	"lectern/internal/adapters/documents"
	"lectern/internal/adapters/scripture"
	"lectern/internal/adapters/synaxarium"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/langs"
	perr "lectern/internal/platform/errors"
)

// bundledSource marks values compiled into the binary
const bundledSource = "bundled"

// Scripture is the scripture surface the tools call
type Scripture interface {
	Search(ctx context.Context, translation, lang, query string) (scripture.Result[[]scripture.SearchHit], error)
	GetChapterContent(ctx context.Context, translation, lang, chapterID string) (scripture.Result[scripture.ChapterContent], error)
}

// Calendar is the calendar surface the tools call
type Calendar interface {
	GetDailyReadingsFor(ctx context.Context, iso, lang string) (calendar.Day, error)
}

// Synaxarium is the synaxarium surface the tools call
type Synaxarium interface {
	Get(ctx context.Context, month, day int, lang string) synaxarium.Result
}

// Documents is the document surface the tools call
type Documents interface {
	Load(ctx context.Context, id, lang string) (*documents.Document, error)
}

// Provenance is attached to every tool output
type Provenance struct {
	Source    string `json:"source" jsonschema:"fresh, cache, stale or bundled"`
	WrittenAt string `json:"written_at,omitempty" jsonschema:"RFC3339 time the value was stored"`
}

func provenance(src cacheaside.Source, at time.Time) Provenance {
	p := Provenance{Source: string(src)}
	if !at.IsZero() {
		p.WrittenAt = at.UTC().Format(time.RFC3339)
	}
	return p
}

func lang(in string) string {
	if strings.TrimSpace(in) == "" {
		return langs.Base
	}
	return langs.Normalize(in)
}

// ScriptureSearchInput is the scripture_search input
type ScriptureSearchInput struct {
	Query       string `json:"query" jsonschema:"text to search for"`
	Lang        string `json:"lang,omitempty" jsonschema:"language code (en, ar, ru)"`
	Translation string `json:"translation,omitempty" jsonschema:"bible id; empty uses the default for lang"`
}

// ScriptureSearchResult is the scripture_search output
type ScriptureSearchResult struct {
	Provenance  Provenance            `json:"provenance" jsonschema:"where the value came from"`
	Translation string                `json:"translation" jsonschema:"bible id searched"`
	Hits        []scripture.SearchHit `json:"hits" jsonschema:"matching verses"`
}

// ScriptureSearchTool defines the scripture_search schema
func ScriptureSearchTool() *mcp.Tool {
	return &mcp.Tool{Name: "scripture_search", Description: "Searches a bible translation for verses containing a phrase"}
}

// ScriptureSearchHandler searches one translation
func ScriptureSearchHandler(s Scripture) mcp.ToolHandlerFor[ScriptureSearchInput, ScriptureSearchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ScriptureSearchInput) (*mcp.CallToolResult, ScriptureSearchResult, error) {
		if strings.TrimSpace(in.Query) == "" {
			return nil, ScriptureSearchResult{}, perr.WithField(perr.InvalidArgf("query is required"), "query")
		}
		l := lang(in.Lang)
		r, err := s.Search(ctx, scripture.ResolveTranslation(in.Translation, l), l, in.Query)
		if err != nil {
			return nil, ScriptureSearchResult{}, err
		}
		return nil, ScriptureSearchResult{
			Provenance:  provenance(r.Source, r.WrittenAt),
			Translation: r.Translation,
			Hits:        r.Value,
		}, nil
	}
}

// ScriptureChapterInput is the scripture_chapter input
type ScriptureChapterInput struct {
	Chapter     string `json:"chapter" jsonschema:"chapter id such as JHN.3"`
	Lang        string `json:"lang,omitempty" jsonschema:"language code (en, ar, ru)"`
	Translation string `json:"translation,omitempty" jsonschema:"bible id; empty uses the default for lang"`
}

// ScriptureChapterResult is the scripture_chapter output
type ScriptureChapterResult struct {
	Provenance  Provenance               `json:"provenance" jsonschema:"where the value came from"`
	Translation string                   `json:"translation" jsonschema:"bible id read"`
	Chapter     scripture.ChapterContent `json:"chapter" jsonschema:"chapter with verses in order"`
}

// ScriptureChapterTool defines the scripture_chapter schema
func ScriptureChapterTool() *mcp.Tool {
	return &mcp.Tool{Name: "scripture_chapter", Description: "Reads one bible chapter as numbered verses"}
}

// ScriptureChapterHandler reads one chapter
func ScriptureChapterHandler(s Scripture) mcp.ToolHandlerFor[ScriptureChapterInput, ScriptureChapterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ScriptureChapterInput) (*mcp.CallToolResult, ScriptureChapterResult, error) {
		if strings.TrimSpace(in.Chapter) == "" {
			return nil, ScriptureChapterResult{}, perr.WithField(perr.InvalidArgf("chapter is required"), "chapter")
		}
		l := lang(in.Lang)
		r, err := s.GetChapterContent(ctx, scripture.ResolveTranslation(in.Translation, l), l, in.Chapter)
		if err != nil {
			return nil, ScriptureChapterResult{}, err
		}
		return nil, ScriptureChapterResult{
			Provenance:  provenance(r.Source, r.WrittenAt),
			Translation: r.Translation,
			Chapter:     r.Value,
		}, nil
	}
}

// CalendarDayInput is the calendar_day input
type CalendarDayInput struct {
	Date string `json:"date,omitempty" jsonschema:"gregorian date YYYY-MM-DD; empty means today (UTC)"`
	Lang string `json:"lang,omitempty" jsonschema:"language for the coptic month name"`
}

// CalendarDayResult is the calendar_day output
type CalendarDayResult struct {
	Provenance Provenance             `json:"provenance" jsonschema:"where the value came from"`
	Gregorian  string                 `json:"gregorian" jsonschema:"requested gregorian date"`
	Coptic     calendar.CopticDate    `json:"coptic" jsonschema:"coptic date"`
	Readings   calendar.DailyReadings `json:"readings" jsonschema:"readings grouped by service"`
}

// CalendarDayTool defines the calendar_day schema
func CalendarDayTool() *mcp.Tool {
	return &mcp.Tool{Name: "calendar_day", Description: "Converts a gregorian date to the coptic calendar and lists that day's readings"}
}

// CalendarDayHandler converts a date and reads its lectionary
func CalendarDayHandler(c Calendar, now func() time.Time) mcp.ToolHandlerFor[CalendarDayInput, CalendarDayResult] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CalendarDayInput) (*mcp.CallToolResult, CalendarDayResult, error) {
		iso := strings.TrimSpace(in.Date)
		if iso == "" {
			iso = calendar.ISODate(now().UTC())
		}
		day, err := c.GetDailyReadingsFor(ctx, iso, lang(in.Lang))
		if err != nil {
			return nil, CalendarDayResult{}, err
		}
		return nil, CalendarDayResult{
			Provenance: provenance(day.Readings.Source, day.Readings.WrittenAt),
			Gregorian:  iso,
			Coptic:     day.Date.Value,
			Readings:   day.Readings.Value,
		}, nil
	}
}

// SynaxariumDayInput is the synaxarium_day input
type SynaxariumDayInput struct {
	Month int    `json:"month" jsonschema:"coptic month 1 to 13"`
	Day   int    `json:"day" jsonschema:"day of the coptic month"`
	Lang  string `json:"lang,omitempty" jsonschema:"language code (en, ar, ru)"`
}

// SynaxariumDayResult is the synaxarium_day output
type SynaxariumDayResult struct {
	Provenance Provenance         `json:"provenance" jsonschema:"where the value came from"`
	Entries    []synaxarium.Entry `json:"entries" jsonschema:"commemorations in order"`
	Requested  string             `json:"requested" jsonschema:"language asked for"`
	Language   string             `json:"language" jsonschema:"language served"`
	Fallback   bool               `json:"fallback" jsonschema:"whether another language was served"`
}

// SynaxariumDayTool defines the synaxarium_day schema
func SynaxariumDayTool() *mcp.Tool {
	return &mcp.Tool{Name: "synaxarium_day", Description: "Lists the saints and events commemorated on a coptic day"}
}

// SynaxariumDayHandler looks up one coptic day
func SynaxariumDayHandler(s Synaxarium) mcp.ToolHandlerFor[SynaxariumDayInput, SynaxariumDayResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SynaxariumDayInput) (*mcp.CallToolResult, SynaxariumDayResult, error) {
		if in.Month < 1 || in.Month > calendar.Months {
			return nil, SynaxariumDayResult{}, perr.WithField(perr.InvalidArgf("month must be 1..%d", calendar.Months), "month")
		}
		if in.Day < 1 || in.Day > 30 {
			return nil, SynaxariumDayResult{}, perr.WithField(perr.InvalidArgf("day must be 1..30"), "day")
		}
		r := s.Get(ctx, in.Month, in.Day, lang(in.Lang))
		return nil, SynaxariumDayResult{
			Provenance: Provenance{Source: bundledSource},
			Entries:    r.Entries,
			Requested:  r.Requested,
			Language:   r.Language,
			Fallback:   r.Fallback,
		}, nil
	}
}

// DocumentReadInput is the document_read input
type DocumentReadInput struct {
	ID   string `json:"id" jsonschema:"document id as category/slug, e.g. prayers/trisagion"`
	Lang string `json:"lang,omitempty" jsonschema:"requested language; falls back to ar then any"`
}

// DocumentReadResult is the document_read output
type DocumentReadResult struct {
	Provenance Provenance `json:"provenance" jsonschema:"where the value came from"`
	Document   Resolution `json:"document" jsonschema:"which language version was read"`
	Title      string     `json:"title" jsonschema:"first level one heading"`
	Markdown   string     `json:"markdown" jsonschema:"document text"`
}

// DocumentReadTool defines the document_read schema
func DocumentReadTool() *mcp.Tool {
	return &mcp.Tool{Name: "document_read", Description: "Reads a bundled prayer or liturgical text in the best available language"}
}

// DocumentReadHandler resolves and reads one document
func DocumentReadHandler(d Documents) mcp.ToolHandlerFor[DocumentReadInput, DocumentReadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DocumentReadInput) (*mcp.CallToolResult, DocumentReadResult, error) {
		doc, err := load(ctx, d, in.ID, in.Lang)
		if err != nil {
			return nil, DocumentReadResult{}, err
		}
		return nil, DocumentReadResult{
			Provenance: Provenance{Source: bundledSource},
			Document:   resolution(doc.Resolved),
			Title:      doc.Title,
			Markdown:   doc.Markdown,
		}, nil
	}
}

// DocumentSearchInput is the document_search input
type DocumentSearchInput struct {
	ID    string `json:"id" jsonschema:"document id as category/slug"`
	Query string `json:"query" jsonschema:"text to find, case and diacritics are ignored"`
	Lang  string `json:"lang,omitempty" jsonschema:"requested language"`
	Limit int    `json:"limit,omitempty" jsonschema:"max hits, default 20"`
}

// DocumentSearchResult is the document_search output
type DocumentSearchResult struct {
	Provenance Provenance      `json:"provenance" jsonschema:"where the value came from"`
	Document   Resolution      `json:"document" jsonschema:"which language version was searched"`
	Query      string          `json:"query" jsonschema:"query as given"`
	Hits       []documents.Hit `json:"hits" jsonschema:"matching lines"`
}

// DocumentSearchTool defines the document_search schema
func DocumentSearchTool() *mcp.Tool {
	return &mcp.Tool{Name: "document_search", Description: "Finds lines inside one bundled document"}
}

// DocumentSearchHandler searches inside one document
func DocumentSearchHandler(d Documents) mcp.ToolHandlerFor[DocumentSearchInput, DocumentSearchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DocumentSearchInput) (*mcp.CallToolResult, DocumentSearchResult, error) {
		doc, err := load(ctx, d, in.ID, in.Lang)
		if err != nil {
			return nil, DocumentSearchResult{}, err
		}
		return nil, DocumentSearchResult{
			Provenance: Provenance{Source: bundledSource},
			Document:   resolution(doc.Resolved),
			Query:      in.Query,
			Hits:       documents.Search(doc.Markdown, in.Query, in.Limit),
		}, nil
	}
}

// Resolution describes the language version chosen for a document request
type Resolution struct {
	ID        string `json:"id" jsonschema:"document id"`
	Language  string `json:"language" jsonschema:"language served"`
	Requested string `json:"requested" jsonschema:"language asked for"`
	Fallback  bool   `json:"fallback" jsonschema:"whether another language was served"`
}

func resolution(r documents.Resolved) Resolution {
	return Resolution{ID: r.Handle.ID, Language: r.Handle.Language, Requested: r.Requested, Fallback: r.Fallback}
}

func load(ctx context.Context, d Documents, id, l string) (*documents.Document, error) {
	id = strings.Trim(strings.TrimSpace(id), "/")
	if id == "" {
		return nil, perr.WithField(perr.InvalidArgf("id is required"), "id")
	}
	if l = strings.ToLower(strings.TrimSpace(l)); l == "" {
		l = langs.Base
	}
	doc, err := d.Load(ctx, id, l)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, perr.NotFoundf("document %s not found", id)
	}
	return doc, nil
}
