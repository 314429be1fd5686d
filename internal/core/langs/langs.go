// Package langs names the interface and text languages lectern serves
package langs

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

const (
	Arabic       = "ar"
	English      = "en"
	Russian      = "ru"
	Coptic       = "cop"
	ArabicCoptic = "arcop" // arabic and coptic side by side
)

// Base is the interface language data falls back to
const Base = English

// DefaultDocument is the language bundled documents fall back to
const DefaultDocument = Base

// UI lists the interface languages
var UI = []string{Arabic, English, Russian}

// Text lists the languages liturgical texts exist in
var Text = []string{Arabic, English, Russian, Coptic, ArabicCoptic}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic, language.Russian})

// Normalize maps a tag like "ar-EG" or "EN" to a known code, or "" when unknown
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return ""
	case Coptic, ArabicCoptic:
		return s
	}
	tag, err := language.Parse(s)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	code := base.String()
	for _, k := range Text {
		if k == code {
			return code
		}
	}
	return ""
}

// IsUI reports whether code is an interface language
func IsUI(code string) bool {
	for _, k := range UI {
		if k == code {
			return true
		}
	}
	return false
}

// UIOrBase normalizes s and returns it when it is an interface language, else Base
func UIOrBase(s string) string {
	if c := Normalize(s); IsUI(c) {
		return c
	}
	return Base
}

// Match picks the best interface language for an Accept-Language header
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Base
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Base
	}
	return []string{English, Arabic, Russian}[idx]
}

// RTL reports right to left text languages
func RTL(code string) bool { return code == Arabic || code == ArabicCoptic }

// Guess returns the language suggested by the dominant script of s, or "" when unclear
// Coptic letters win over Greek since the Coptic block reuses Greek forms
func Guess(s string) string {
	var arabic, cyrillic, coptic, latin, total int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case unicode.In(r, unicode.Arabic):
			arabic++
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		case unicode.In(r, unicode.Coptic):
			coptic++
		case unicode.In(r, unicode.Latin):
			latin++
		}
	}
	if total == 0 {
		return ""
	}
	best, code := 0, ""
	for _, c := range []struct {
		n    int
		code string
	}{{coptic, Coptic}, {arabic, Arabic}, {cyrillic, Russian}, {latin, English}} {
		if c.n > best {
			best, code = c.n, c.code
		}
	}
	return code
}
