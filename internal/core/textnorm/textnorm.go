// Package textnorm cleans upstream and bundled text before it reaches callers
//
// Text is the display form: control bytes dropped, NFC, fullwidth folded, whitespace collapsed.
// Fold is the match form used by search: NFKC, case folded, combining marks removed,
// so Arabic tashkeel and Latin accents do not affect matching.
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var displayPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.Predicate(func(r rune) bool { return r == '\uFEFF' })), // BOM
			width.Fold,
		)
	},
}

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			norm.NFC,
		)
	},
}

func run(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Text returns the display form of s
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(Sanitize(s), "")
	return Collapse(run(&displayPool, s))
}

// Fold returns the comparison form of s
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(Sanitize(s), "")
	return Collapse(run(&foldPool, s))
}

// Collapse turns every whitespace run into one ASCII space and trims the ends
func Collapse(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}

// Join concatenates fragments with single spaces and collapses the result
func Join(parts []string) string { return Text(strings.Join(parts, " ")) }

// Lines normalizes each line on its own and joins the non-empty ones with newlines
func Lines(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = Text(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
