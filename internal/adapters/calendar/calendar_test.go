package calendar

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"lectern/internal/core/cacheaside"
	"lectern/internal/core/fallback"
	"lectern/internal/platform/cache"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/testkit"
)

func newAdapter(t *testing.T, h http.HandlerFunc, opts ...cacheaside.Option) (*Adapter, *testkit.Upstream) {
	t.Helper()
	up := testkit.NewUpstream(t, h)
	orch := cacheaside.New(cache.NewMemory(), cacheaside.DefaultConfig(), opts...)
	return New(Config{BaseURL: up.URL}, orch), up
}

func TestGetCopticDate_ThirdCandidateWins(t *testing.T) {
	t.Parallel()
	a, up := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/calendar/gregorian/2024-09-11" {
			testkit.JSON(w, 200, `{"data":{"coptic":{"year":1741,"month":1,"day":1,"monthName":"Tout"}}}`)
			return
		}
		testkit.JSON(w, 404, `{"error":"no route"}`)
	})

	r, err := a.GetCopticDate(context.Background(), "2024-09-11", "fr")
	if err != nil {
		t.Fatalf("GetCopticDate: %v", err)
	}
	if up.Hits() != 3 || len(r.Attempts) != 3 {
		t.Fatalf("hits = %d attempts = %d", up.Hits(), len(r.Attempts))
	}
	if r.Attempts[0].OK() || r.Attempts[1].OK() || !r.Attempts[2].OK() {
		t.Fatalf("attempts = %+v", r.Attempts)
	}
	want := CopticDate{Year: 1741, Month: 1, Day: 1, MonthName: "Tout"}
	if r.Value != want || r.Source != cacheaside.SourceFresh {
		t.Fatalf("result = %+v", r)
	}
	reqs := up.Requests()
	if reqs[0] != "/api/v1/calendar/gregorian/2024-09-11" || reqs[1] != "/api/calendar/gregorian/2024-09-11" {
		t.Fatalf("order = %v", reqs)
	}
}

func TestGetCopticDate_LocalizedNameAndCache(t *testing.T) {
	t.Parallel()
	a, up := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		testkit.JSON(w, 200, `{"copticYear":"1741","copticMonth":4.2,"dayOfMonth":29,"copticMonthName":"Kiahk"}`)
	})
	ctx := context.Background()

	r, err := a.GetCopticDate(ctx, "2025-01-07", "ar")
	if err != nil {
		t.Fatalf("GetCopticDate: %v", err)
	}
	if r.Value.Month != 4 || r.Value.Day != 29 || r.Value.Year != 1741 || r.Value.MonthName != "كيهك" {
		t.Fatalf("date = %+v", r.Value)
	}

	r2, err := a.GetCopticDate(ctx, "2025-01-07", "de")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if r2.Source != cacheaside.SourceCache || r2.Value.MonthName != "Kiahk" || len(r2.Attempts) != 0 {
		t.Fatalf("second = %+v", r2)
	}
	if up.Hits() != 1 {
		t.Fatalf("hits = %d", up.Hits())
	}
}

func TestGetCopticDate_ExhaustedReturnsLastError(t *testing.T) {
	t.Parallel()
	a, up := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/calendar/day" {
			testkit.JSON(w, 503, ``)
			return
		}
		testkit.JSON(w, 404, `{}`)
	})
	r, err := a.GetCopticDate(context.Background(), "2024-01-01", "en")
	u, ok := perr.AsUpstream(err)
	if !ok || u.Status != 503 || u.Path != "calendar/day?date=2024-01-01" {
		t.Fatalf("err = %v", err)
	}
	if up.Hits() != 5 || len(r.Attempts) != 5 {
		t.Fatalf("hits = %d attempts = %d", up.Hits(), len(r.Attempts))
	}
}

func TestGetCopticDate_NoContentIsParseError(t *testing.T) {
	t.Parallel()
	a, up := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	_, err := a.GetCopticDate(context.Background(), "2024-01-01", "en")
	if !perr.IsCode(err, perr.ErrorCodeParse) {
		t.Fatalf("err = %v, want parse", err)
	}
	if up.Hits() != 1 {
		t.Fatalf("hits = %d", up.Hits())
	}
}

func TestGetCopticDate_InvalidDate(t *testing.T) {
	t.Parallel()
	a, up := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := a.GetCopticDate(context.Background(), "07/01/2025", "en")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) || up.Hits() != 0 {
		t.Fatalf("err = %v hits = %d", err, up.Hits())
	}
}

func TestGetCopticDate_StaleOnFailure(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var fail atomic.Bool
	a, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			testkit.JSON(w, 500, `{}`)
			return
		}
		testkit.JSON(w, 200, `{"year":1741,"month":5,"day":1}`)
	}, cacheaside.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if _, err := a.GetCopticDate(ctx, "2025-01-09", "en"); err != nil {
		t.Fatalf("prime: %v", err)
	}
	fail.Store(true)
	now = now.Add(13 * time.Hour)
	r, err := a.GetCopticDate(ctx, "2025-01-09", "en")
	if err != nil {
		t.Fatalf("stale: %v", err)
	}
	if r.Source != cacheaside.SourceStale || r.Value.MonthName != "Tobe" || len(r.Attempts) != 5 {
		t.Fatalf("result = %+v", r)
	}
}

func TestGetDailyReadingsFor(t *testing.T) {
	t.Parallel()
	a, up := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/calendar/gregorian/2025-01-07":
			testkit.JSON(w, 200, `{"coptic":{"year":1741,"month":4,"day":29}}`)
		case "/api/v1/readings/1741/4/29":
			testkit.JSON(w, 200, `{"readings":{
				"Matins":[{"title":"Psalm","citation":"Ps 2:7"}],
				"mass":{"items":[{"verses":["a","b"]},{}]}}}`)
		default:
			testkit.JSON(w, 404, `{}`)
		}
	})
	day, err := a.GetDailyReadingsFor(context.Background(), "2025-01-07", "en")
	if err != nil {
		t.Fatalf("GetDailyReadingsFor: %v", err)
	}
	if day.Date.Value.MonthName != "Koiak" {
		t.Fatalf("date = %+v", day.Date.Value)
	}
	rd := day.Readings.Value
	if len(rd.Matins) != 1 || rd.Matins[0].Reference != "Ps 2:7" || rd.Matins[0].Source != "Matins" || rd.Matins[0].ID != "matins-0" {
		t.Fatalf("matins = %+v", rd.Matins)
	}
	if len(rd.Vespers) != 0 || rd.Vespers == nil {
		t.Fatalf("vespers = %+v", rd.Vespers)
	}
	if len(rd.Liturgy) != 1 || rd.Liturgy[0].Text != "a\nb" || rd.Liturgy[0].Title != "Reading 1" {
		t.Fatalf("liturgy = %+v", rd.Liturgy)
	}
	if up.Hits() != 2 {
		t.Fatalf("hits = %d", up.Hits())
	}
}

func TestGetDailyReadings_OutOfRange(t *testing.T) {
	t.Parallel()
	a, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := a.GetDailyReadings(context.Background(), CopticDate{Year: 1741, Month: 14, Day: 1})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestAttemptObserver_SeesEveryCandidate(t *testing.T) {
	t.Parallel()
	up := testkit.NewUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/calendar/gregorian/2024-01-07" {
			testkit.JSON(w, 200, `{"coptic":{"year":1740,"month":4,"day":29}}`)
			return
		}
		testkit.JSON(w, 500, `{}`)
	})
	var seen []fallback.Attempt
	orch := cacheaside.New(cache.NewMemory(), cacheaside.DefaultConfig())
	a := New(Config{BaseURL: up.URL}, orch, WithAttemptObserver(func(at fallback.Attempt) { seen = append(seen, at) }))

	if _, err := a.GetCopticDate(context.Background(), "2024-01-07", "en"); err != nil {
		t.Fatalf("GetCopticDate: %v", err)
	}
	if len(seen) != 2 || seen[0].OK() || !seen[1].OK() {
		t.Fatalf("seen = %+v", seen)
	}
	if seen[1].Candidate != "api/calendar/gregorian/2024-01-07" {
		t.Fatalf("candidate = %q", seen[1].Candidate)
	}
}
