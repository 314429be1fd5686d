package calendar

import (
	"encoding/json"
	"testing"

	perr "lectern/internal/platform/errors"
)

func tree(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestParseDate_SegmentPriority(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name, payload string
		want          upstreamDate
	}{
		{"coptic", `{"coptic":{"year":1,"month":2,"day":3},"copticDate":{"year":9,"month":9,"day":9}}`, upstreamDate{1, 2, 3, ""}},
		{"copticDate", `{"copticDate":{"year":1,"month":2,"day":3}}`, upstreamDate{1, 2, 3, ""}},
		{"data.coptic", `{"data":{"coptic":{"year":1,"month":2,"day":3}}}`, upstreamDate{1, 2, 3, ""}},
		{"data.calendar.coptic", `{"data":{"calendar":{"coptic":{"year":1,"month":2,"day":3,"monthName":"Paopi"}}}}`, upstreamDate{1, 2, 3, "Paopi"}},
		{"whole payload", `{"year":1,"month":2,"day":3}`, upstreamDate{1, 2, 3, ""}},
		{"clamped high", `{"year":1,"month":13.6,"day":3}`, upstreamDate{1, 13, 3, ""}},
		{"clamped low", `{"year":1,"month":0,"day":3}`, upstreamDate{1, 1, 3, ""}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseDate(tree(t, c.payload), "x")
			if err != nil {
				t.Fatalf("parseDate: %v", err)
			}
			if got != c.want {
				t.Fatalf("got %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestParseDate_NoPartialDate(t *testing.T) {
	t.Parallel()
	for _, p := range []string{
		`{"year":1,"month":2}`,
		`{"year":"x","month":2,"day":3}`,
		`[1,2,3]`,
		`null`,
	} {
		if _, err := parseDate(tree(t, p), "x"); !perr.IsCode(err, perr.ErrorCodeParse) {
			t.Fatalf("%s: err = %v", p, err)
		}
	}
}

func TestMonthName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		month          int
		lang, upstream string
		want           string
	}{
		{1, "en", "Tout", "Thout"},
		{13, "ru", "", "Наси"},
		{4, "ar-EG", "", "كيهك"},
		{2, "fr", "Baba", "Baba"},
		{2, "fr", "", "Paopi"},
		{0, "en", "odd", "odd"},
	}
	for _, c := range cases {
		if got := MonthName(c.month, c.lang, c.upstream); got != c.want {
			t.Fatalf("MonthName(%d, %q, %q) = %q, want %q", c.month, c.lang, c.upstream, got, c.want)
		}
	}
}

func TestParseReadings_Shapes(t *testing.T) {
	t.Parallel()
	rd := ParseReadings(tree(t, `{"data":{"calendar":{"readings":{
		"morning":{"entries":[{"name":"Gospel","reference":"Mk 1:1","id":"g1"}]},
		"eveningPrayer":{"b":{"passage":"Jn 1:1","type":"Vespers Gospel"},"a":{"body":"text a"}},
		"divineLiturgy":[{"section":"Pauline","ref":"Rom 1:1"},"bare",{"slug":"x"}]
	}}}}`))

	if len(rd.Matins) != 1 || rd.Matins[0].ID != "g1" || rd.Matins[0].Title != "Gospel" {
		t.Fatalf("matins = %+v", rd.Matins)
	}
	// bare objects are read in key order
	if len(rd.Vespers) != 2 || rd.Vespers[0].Text != "text a" || rd.Vespers[1].Source != "Vespers Gospel" || rd.Vespers[1].ID != "vespers-1" {
		t.Fatalf("vespers = %+v", rd.Vespers)
	}
	if len(rd.Liturgy) != 1 || rd.Liturgy[0].Title != "Pauline" || rd.Liturgy[0].Source != "Liturgy" {
		t.Fatalf("liturgy = %+v", rd.Liturgy)
	}
}

func TestParseReadings_VerseLinesKeepBreaks(t *testing.T) {
	t.Parallel()
	rd := ParseReadings(tree(t, `{"liturgy":[{"title":"Psalm","verses":["  The Lord  reigneth,", "", "he is clothed\twith majesty."]}]}`))
	if len(rd.Liturgy) != 1 {
		t.Fatalf("liturgy = %+v", rd.Liturgy)
	}
	if got := rd.Liturgy[0].Text; got != "The Lord reigneth,\nhe is clothed with majesty." {
		t.Fatalf("text = %q", got)
	}
}

func TestParseReadings_Empty(t *testing.T) {
	t.Parallel()
	for _, p := range []any{nil, "x", map[string]any{}} {
		rd := ParseReadings(p)
		if rd.Matins == nil || rd.Vespers == nil || rd.Liturgy == nil || len(rd.Matins)+len(rd.Vespers)+len(rd.Liturgy) != 0 {
			t.Fatalf("%v: %+v", p, rd)
		}
	}
}
