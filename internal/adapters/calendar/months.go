package calendar

import (
	"math"
	"strings"

	"lectern/internal/core/langs"
)

// Months is the number of coptic months, the last being the short intercalary Nasie
const Months = 13

var monthNames = map[string][Months]string{
	langs.English: {
		"Thout", "Paopi", "Hathor", "Koiak", "Tobe", "Meshir", "Paremhat",
		"Paremoude", "Pashons", "Paoni", "Epip", "Mesori", "Nasi",
	},
	langs.Arabic: {
		"توت", "بابه", "هاتور", "كيهك", "طوبة", "أمشير", "برمهات",
		"برمودة", "بشنس", "بؤونة", "أبيب", "مسرى", "نسيء",
	},
	langs.Russian: {
		"Тоут", "Баба", "Хатор", "Кияхк", "Тоба", "Амшир", "Бармахат",
		"Бармуде", "Башанс", "Пауни", "Эпеп", "Месра", "Наси",
	},
}

// ClampMonth rounds m and clamps it to 1..13
func ClampMonth(m float64) int {
	r := int(math.Round(m))
	if r < 1 {
		return 1
	}
	if r > Months {
		return Months
	}
	return r
}

// MonthName localizes month for lang
// the table for a supported language wins, then upstream, then English
func MonthName(month int, lang, upstream string) string {
	if month < 1 || month > Months {
		return strings.TrimSpace(upstream)
	}
	if t, ok := monthNames[langs.Normalize(lang)]; ok {
		return t[month-1]
	}
	if s := strings.TrimSpace(upstream); s != "" {
		return s
	}
	return monthNames[langs.English][month-1]
}
