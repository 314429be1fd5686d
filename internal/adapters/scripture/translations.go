package scripture

import "lectern/internal/core/langs"

// DefaultTranslations maps an interface language to its default translation id
var DefaultTranslations = map[string]string{
	langs.English: "de4e12af7f28f599-02", // King James Version
	langs.Arabic:  "65eec8e0b60e656b-01", // Smith & Van Dyke
	langs.Russian: "c9e485b1eb295f0c-01", // Synodal
}

// ResolveTranslation picks explicit, then the language default, then the English default
func ResolveTranslation(explicit, lang string) string {
	if explicit != "" {
		return explicit
	}
	if id, ok := DefaultTranslations[langs.Normalize(lang)]; ok {
		return id
	}
	return DefaultTranslations[langs.English]
}
