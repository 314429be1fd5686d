package documents

import (
	"regexp"
	"strconv"
	"strings"

	"lectern/internal/core/textnorm"
)

const (
	// DefaultSearchLimit caps hits when the caller passes no limit
	DefaultSearchLimit = 12

	snippetMax = 220
	snippetCut = 217
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Hit is one matching line
type Hit struct {
	ID      string `json:"id"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

// Search finds the non-blank lines containing query, ignoring case and diacritics
// Line numbers are zero based; a blank query has no hits
func Search(markdown, query string, limit int) []Hit {
	q := textnorm.Fold(strings.TrimSpace(query))
	if q == "" {
		return []Hit{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	hits := []Hit{}
	for i, line := range lineBreak.Split(markdown, -1) {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(textnorm.Fold(line), q) {
			continue
		}
		hits = append(hits, Hit{ID: "line-" + strconv.Itoa(i), Line: i, Snippet: snippet(line)})
		if len(hits) == limit {
			break
		}
	}
	return hits
}

func snippet(line string) string {
	r := []rune(line)
	if len(r) <= snippetMax {
		return line
	}
	return string(r[:snippetCut]) + "..."
}
