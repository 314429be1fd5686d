package calendar

import (
	"strconv"

	"lectern/internal/core/contenttree"
	"lectern/internal/core/textnorm"
	perr "lectern/internal/platform/errors"
)

var (
	dateSegments     = []string{"coptic", "copticDate", "data.coptic", "data.calendar.coptic"}
	readingsSegments = []string{"readings", "data.readings", "data.calendar.readings"}

	serviceAliases = map[Service][]string{
		Matins:  {"matins", "Matins", "morning", "morningReadings", "matinsReadings"},
		Vespers: {"vespers", "Vespers", "evening", "eveningReadings", "vespersReadings", "eveningPrayer"},
		Liturgy: {"liturgy", "Liturgy", "divineLiturgy", "mass", "liturgyReadings", "massReadings"},
	}
)

// upstreamDate is the cached form; the month name is localized per call
type upstreamDate struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"monthName,omitempty"`
}

func (u upstreamDate) localize(lang string) CopticDate {
	return CopticDate{Year: u.Year, Month: u.Month, Day: u.Day, MonthName: MonthName(u.Month, lang, u.MonthName)}
}

// parseDate reads a date payload; a missing or non numeric year, month or day fails the whole parse
func parseDate(payload any, iso string) (upstreamDate, error) {
	root, ok := payload.(map[string]any)
	if !ok {
		return upstreamDate{}, perr.Parsef("calendar: unable to parse coptic date payload for %s", iso)
	}
	seg, ok := contenttree.Obj(root, dateSegments...)
	if !ok {
		seg = root
	}
	year, yok := contenttree.Num(seg, "year", "copticYear")
	month, mok := contenttree.Num(seg, "month", "copticMonth")
	day, dok := contenttree.Num(seg, "day", "copticDay", "dayOfMonth")
	if !yok || !mok || !dok {
		return upstreamDate{}, perr.Parsef("calendar: unable to parse coptic date payload for %s", iso)
	}
	return upstreamDate{
		Year:      int(year),
		Month:     ClampMonth(month),
		Day:       int(day),
		MonthName: textnorm.Text(contenttree.Str(seg, "monthName", "copticMonthName")),
	}, nil
}

// ParseReadings reads a readings payload; anything unrecognized yields empty services
func ParseReadings(payload any) DailyReadings {
	out := DailyReadings{Matins: []ReadingItem{}, Vespers: []ReadingItem{}, Liturgy: []ReadingItem{}}
	root, ok := payload.(map[string]any)
	if !ok {
		return out
	}
	seg := root
	for _, p := range readingsSegments {
		if v := contenttree.Path(root, p); truthy(v) {
			m, ok := v.(map[string]any)
			if !ok {
				return out
			}
			seg = m
			break
		}
	}
	out.Matins = parseService(seg, Matins)
	out.Vespers = parseService(seg, Vespers)
	out.Liturgy = parseService(seg, Liturgy)
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	}
	return true
}

func parseService(seg map[string]any, s Service) []ReadingItem {
	var raw any
	for _, a := range serviceAliases[s] {
		if v, ok := seg[a]; ok && v != nil {
			raw = v
			break
		}
	}
	items := []ReadingItem{}
	for i, v := range contenttree.Seq(raw, "entries", "items", "readings") {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if it, ok := parseItem(m, i, s); ok {
			items = append(items, it)
		}
	}
	return items
}

// parseItem keeps an entry only when the payload supplied a title, reference or text
func parseItem(m map[string]any, i int, s Service) (ReadingItem, bool) {
	title := contenttree.Str(m, "title", "name", "section", "reading", "description")
	reference := contenttree.Str(m, "citation", "reference", "ref", "passage")
	text := textnorm.Text(contenttree.Str(m, "text", "content", "body"))
	if text == "" {
		if vs, ok := m["verses"].([]any); ok {
			lines := make([]string, 0, len(vs))
			for _, v := range vs {
				lines = append(lines, contenttree.Scalar(v))
			}
			text = textnorm.Lines(lines)
		}
	}
	if title == "" && reference == "" && text == "" {
		return ReadingItem{}, false
	}
	if title == "" {
		title = "Reading " + strconv.Itoa(i+1)
	}
	id := contenttree.Str(m, "id", "slug")
	if id == "" {
		id = string(s) + "-" + strconv.Itoa(i)
	}
	source := contenttree.Str(m, "service", "type", "liturgicalUse")
	if source == "" {
		source = s.Label()
	}
	return ReadingItem{
		ID:        id,
		Title:     textnorm.Text(title),
		Reference: textnorm.Text(reference),
		Text:      text,
		Source:    source,
	}, true
}
