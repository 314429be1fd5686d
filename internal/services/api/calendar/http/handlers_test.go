package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"testing"
	"time"

	"lectern/internal/adapters/calendar"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/fallback"
	"lectern/internal/core/reqtoken"
	phttp "lectern/internal/platform/net/http"
	"lectern/internal/platform/testkit/apitest"
	"lectern/internal/services/api/calendar/domain"
)

type fakePort struct {
	gotDate calendar.CopticDate
	gotISO  string
}

func (f *fakePort) GetCopticDate(_ context.Context, iso, lang string) (calendar.Result[calendar.CopticDate], error) {
	f.gotISO = iso
	return calendar.Result[calendar.CopticDate]{
		Value:  calendar.CopticDate{Year: 1742, Month: 8, Day: 23, MonthName: calendar.MonthName(8, lang, "Baramouda")},
		Source: cacheaside.SourceFresh,
		Attempts: []fallback.Attempt{
			{Candidate: "api/calendar?date=" + iso, Err: errors.New("503"), Latency: 4 * time.Millisecond},
			{Candidate: "calendar/" + iso},
		},
	}, nil
}

func (f *fakePort) GetDailyReadings(_ context.Context, d calendar.CopticDate) (calendar.Result[calendar.DailyReadings], error) {
	f.gotDate = d
	return calendar.Result[calendar.DailyReadings]{
		Value:  calendar.DailyReadings{Matins: []calendar.ReadingItem{{ID: "m-0", Title: "Psalm"}}, Vespers: []calendar.ReadingItem{}, Liturgy: []calendar.ReadingItem{}},
		Source: cacheaside.SourceCache,
	}, nil
}

func (f *fakePort) GetDailyReadingsFor(ctx context.Context, iso, lang string) (calendar.Day, error) {
	d, _ := f.GetCopticDate(ctx, iso, lang)
	r, _ := f.GetDailyReadings(ctx, d.Value)
	return calendar.Day{Date: d, Readings: r}, nil
}

func mount(f *fakePort) stdhttp.Handler {
	return apitest.Router(func(r phttp.Router) { Register(r, f, reqtoken.NewTracker()) })
}

type payload[T any] struct {
	Value  T      `json:"value"`
	Source string `json:"source"`
	Token  string `json:"token"`
}

func TestDate_AttemptsAndLocalizedName(t *testing.T) {
	t.Parallel()
	f := &fakePort{}
	rep := apitest.Do(t, mount(f), "GET", "/date?date=2026-05-01&lang=ar")
	if rep.StatusCode != 200 {
		t.Fatalf("status %d: %s", rep.StatusCode, rep.Error)
	}
	p := apitest.Decode[payload[domain.DateView]](t, rep.Data)
	if p.Value.Coptic.MonthName != calendar.MonthName(8, "ar", "") || p.Source != "fresh" {
		t.Fatalf("unexpected %+v", p)
	}
	if len(p.Value.Attempts) != 2 || p.Value.Attempts[0].Error != "503" || p.Value.Attempts[0].LatencyMs != 4 || p.Value.Attempts[1].Error != "" {
		t.Fatalf("attempts %+v", p.Value.Attempts)
	}
}

func TestDate_Validation(t *testing.T) {
	t.Parallel()
	for _, target := range []string{"/date", "/date?date=01-05-2026", "/readings", "/readings?month=14&day=1", "/readings?month=3"} {
		rep := apitest.Do(t, mount(&fakePort{}), "GET", target)
		if rep.StatusCode != 400 && rep.StatusCode != 422 {
			t.Fatalf("%s: status %d", target, rep.StatusCode)
		}
	}
}

func TestReadings_ByCopticDay(t *testing.T) {
	t.Parallel()
	f := &fakePort{}
	rep := apitest.Do(t, mount(f), "GET", "/readings?year=1742&month=13&day=5&lang=ru")
	if rep.StatusCode != 200 {
		t.Fatalf("status %d: %s", rep.StatusCode, rep.Error)
	}
	if f.gotDate.Month != 13 || f.gotDate.Day != 5 || f.gotDate.Year != 1742 || f.gotISO != "" {
		t.Fatalf("port saw %+v iso=%q", f.gotDate, f.gotISO)
	}
	p := apitest.Decode[payload[domain.ReadingsView]](t, rep.Data)
	if p.Source != "cache" || len(p.Value.Readings.Matins) != 1 || p.Value.Gregorian != "" {
		t.Fatalf("unexpected %+v", p)
	}
}

func TestReadings_ByDateCombinesAttempts(t *testing.T) {
	t.Parallel()
	rep := apitest.Do(t, mount(&fakePort{}), "GET", "/readings?date=2026-05-01")
	p := apitest.Decode[payload[domain.ReadingsView]](t, rep.Data)
	if p.Value.Gregorian != "2026-05-01" || p.Value.DateFrom != "fresh" || p.Value.Coptic.Day != 23 || len(p.Value.Attempts) != 2 {
		t.Fatalf("unexpected %+v", p.Value)
	}
}
