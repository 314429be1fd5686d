// Package synaxarium resolves the commemorations of a coptic day from a bundled registry
//
// Lookups are local and never fail: when neither the requested language nor English has an
// entry the result is empty.
package synaxarium

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"lectern/internal/core/contenttree"
	"lectern/internal/core/langs"
	"lectern/internal/core/textnorm"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
)

//go:embed data/*.json
var bundle embed.FS

const titleRunes = 48

// Entry is one commemoration
type Entry struct {
	Title string `json:"title"`
	Story string `json:"story"`
}

// Loader returns the raw entries registered under one key
type Loader func(ctx context.Context) ([]any, error)

// Registry maps "<lang>-<month>-<day>" to a loader
type Registry map[string]Loader

// Keys returns the registered keys sorted
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Key builds a registry key after clamping month to 1..13 and day to 1..31
func Key(lang string, month, day int) string {
	return NormalizeLang(lang) + "-" + strconv.Itoa(clamp(month, 1, 13)) + "-" + strconv.Itoa(clamp(day, 1, 31))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// NormalizeLang maps ar*, ru* and en* tags to their base code, lowercases anything else, and defaults to en
func NormalizeLang(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	switch {
	case l == "":
		return langs.Base
	case strings.HasPrefix(l, langs.Arabic):
		return langs.Arabic
	case strings.HasPrefix(l, langs.Russian):
		return langs.Russian
	case strings.HasPrefix(l, langs.English):
		return langs.English
	}
	return l
}

// Candidates lists the keys tried for a lookup: the requested language, then English
func Candidates(lang string, month, day int) []string {
	primary := Key(lang, month, day)
	base := Key(langs.Base, month, day)
	if primary == base {
		return []string{primary}
	}
	return []string{primary, base}
}

// FromFS registers every <lang>-<month>-<day>.json file in dir of fsys
func FromFS(fsys fs.FS, dir string) (Registry, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "synaxarium: scan %s", dir)
	}
	reg := make(Registry, len(matches))
	for _, name := range matches {
		key := strings.TrimSuffix(path.Base(name), ".json")
		file := name
		reg[key] = func(ctx context.Context) ([]any, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			raw, err := fs.ReadFile(fsys, file)
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "synaxarium: read %s", file)
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeParse, "synaxarium: decode %s", file)
			}
			arr, _ := v.([]any)
			return arr, nil
		}
	}
	return reg, nil
}

// Bundled returns the registry of the embedded data set
func Bundled() Registry {
	reg, err := FromFS(bundle, "data")
	if err != nil {
		// the pattern is a constant, Glob only fails on a malformed one
		panic(err)
	}
	return reg
}

// Result is a lookup outcome; Language is the language actually served
type Result struct {
	Entries   []Entry `json:"entries"`
	Requested string  `json:"requested"`
	Language  string  `json:"language"`
	Fallback  bool    `json:"fallback"`
}

// Resolver answers lookups against a Registry
type Resolver struct {
	reg Registry
	log *logger.Logger
}

// New builds a Resolver; a nil registry uses the bundled data
func New(reg Registry) *Resolver {
	if reg == nil {
		reg = Bundled()
	}
	return &Resolver{reg: reg, log: logger.Named("synaxarium")}
}

// Get returns the entries of the first candidate key that loads and yields at least one entry
func (r *Resolver) Get(ctx context.Context, month, day int, lang string) Result {
	requested := NormalizeLang(lang)
	out := Result{Entries: []Entry{}, Requested: requested, Language: requested}
	for _, key := range Candidates(lang, month, day) {
		load, ok := r.reg[key]
		if !ok {
			continue
		}
		raw, err := load(ctx)
		if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("synaxarium loader failed")
			continue
		}
		entries := Normalize(raw)
		if len(entries) == 0 {
			continue
		}
		served, _, _ := strings.Cut(key, "-")
		out.Entries = entries
		out.Language = served
		out.Fallback = served != requested
		return out
	}
	return out
}

// Normalize keeps object entries with a title or story; a missing title is cut from the story
func Normalize(raw []any) []Entry {
	out := make([]Entry, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		title := textnorm.Text(contenttree.Str(m, "title", "name", "heading"))
		story := textnorm.Text(contenttree.Str(m, "story", "text", "description"))
		if title == "" && story == "" {
			continue
		}
		if title == "" {
			title = truncateRunes(story, titleRunes)
		}
		out = append(out, Entry{Title: title, Story: story})
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
