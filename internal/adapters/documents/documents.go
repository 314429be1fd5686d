// Package documents resolves bundled liturgical texts by document id and language
//
// Documents live in an fs.FS laid out as <category>/<slug>.<lang>.md; the document id is
// <category>/<slug>. Resolution prefers the requested language, then the default document
// language, then any language the document exists in.
package documents

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"lectern/internal/core/langs"
	perr "lectern/internal/platform/errors"
)

//go:embed content
var bundle embed.FS

const ext = ".md"

// Handle locates one language version of a document
type Handle struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Path     string `json:"-"`
}

// Resolved is a Handle with the language that was asked for
// Fallback is set when the handle's language differs from the request
type Resolved struct {
	Handle    Handle `json:"handle"`
	Requested string `json:"requested"`
	Fallback  bool   `json:"fallback"`
}

// Info summarizes a known document
type Info struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"`
	Slug      string   `json:"slug"`
	Languages []string `json:"languages"`
}

// Registry maps "<id>:<lang>" keys to handles
type Registry struct {
	fsys        fs.FS
	handles     map[string]Handle
	keys        []string
	defaultLang string
}

// Option configures a Registry
type Option func(*Registry)

// WithDefaultLanguage sets the second resolution step, en unless changed
func WithDefaultLanguage(lang string) Option {
	return func(r *Registry) { r.defaultLang = lang }
}

func key(id, lang string) string { return id + ":" + lang }

// NewRegistry scans root in fsys for <category>/<slug>.<lang>.md files; other files are ignored
func NewRegistry(fsys fs.FS, root string, opts ...Option) (*Registry, error) {
	r := &Registry{fsys: fsys, handles: map[string]Handle{}, defaultLang: langs.DefaultDocument}
	for _, o := range opts {
		o(r)
	}
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ext) {
			return nil
		}
		rel := p
		if root != "." {
			rel = strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		}
		category, file := path.Split(rel)
		category = strings.Trim(category, "/")
		if category == "" || strings.Contains(category, "/") {
			return nil
		}
		stem := strings.TrimSuffix(file, ext)
		dot := strings.LastIndex(stem, ".")
		if dot <= 0 || dot == len(stem)-1 {
			return nil
		}
		h := Handle{ID: category + "/" + stem[:dot], Language: stem[dot+1:], Path: p}
		r.handles[key(h.ID, h.Language)] = h
		return nil
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "documents: scan %s", root)
	}
	r.keys = make([]string, 0, len(r.handles))
	for k := range r.handles {
		r.keys = append(r.keys, k)
	}
	sort.Strings(r.keys)
	return r, nil
}

// Bundled returns the registry of the embedded content
func Bundled() *Registry {
	r, err := NewRegistry(bundle, "content")
	if err != nil {
		// the embedded tree always exists
		panic(err)
	}
	return r
}

// DefaultLanguage is the language tried after the requested one
func (r *Registry) DefaultLanguage() string { return r.defaultLang }

// Resolve picks the exact language, then the default language, then the first other
// language in sorted key order
func (r *Registry) Resolve(id, lang string) (Resolved, bool) {
	id = strings.Trim(strings.TrimSpace(id), "/")
	if n := langs.Normalize(lang); n != "" {
		lang = n
	} else {
		lang = strings.ToLower(strings.TrimSpace(lang))
	}
	if id == "" {
		return Resolved{}, false
	}
	if h, ok := r.handles[key(id, lang)]; ok {
		return Resolved{Handle: h, Requested: lang}, true
	}
	if h, ok := r.handles[key(id, r.defaultLang)]; ok {
		return Resolved{Handle: h, Requested: lang, Fallback: true}, true
	}
	prefix := id + ":"
	i := sort.SearchStrings(r.keys, prefix)
	if i < len(r.keys) && strings.HasPrefix(r.keys[i], prefix) {
		return Resolved{Handle: r.handles[r.keys[i]], Requested: lang, Fallback: true}, true
	}
	return Resolved{}, false
}

// Document is a loaded text
type Document struct {
	Resolved
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// Load reads the resolved document; an unknown id yields nil and no error
func (r *Registry) Load(ctx context.Context, id, lang string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, ok := r.Resolve(id, lang)
	if !ok {
		return nil, nil
	}
	b, err := fs.ReadFile(r.fsys, res.Handle.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "documents: read %s", res.Handle.Path)
	}
	md := string(b)
	return &Document{Resolved: res, Title: Title(md), Markdown: md}, nil
}

// List returns every document with its languages, sorted by id
func (r *Registry) List() []Info {
	byID := map[string]*Info{}
	var order []string
	for _, k := range r.keys {
		h := r.handles[k]
		info, ok := byID[h.ID]
		if !ok {
			category, slug, _ := strings.Cut(h.ID, "/")
			info = &Info{ID: h.ID, Category: category, Slug: slug}
			byID[h.ID] = info
			order = append(order, h.ID)
		}
		info.Languages = append(info.Languages, h.Language)
	}
	out := make([]Info, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// Title returns the text of the first level one heading, or ""
func Title(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return ""
}
