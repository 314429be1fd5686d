// Package calendar converts gregorian dates to coptic dates and fetches daily readings from coptic.io
//
// The upstream routes have moved between versions, so each call walks an ordered list of
// candidate paths and keeps the first that answers.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lectern/internal/adapters/upstream"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/fallback"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
)

const (
	service   = "calendar"
	isoLayout = "2006-01-02"
)

// Adapter is the calendar content source
type Adapter struct {
	http *upstream.Client
	orch *cacheaside.Orchestrator
	ttl  time.Duration
	log  *logger.Logger

	onAttempt func(fallback.Attempt)
}

// Option configures an Adapter
type Option func(*Adapter)

// WithAttemptObserver receives every candidate tried by the fallback chain
func WithAttemptObserver(fn func(fallback.Attempt)) Option {
	return func(a *Adapter) { a.onAttempt = fn }
}

// New builds an Adapter
func New(cfg Config, orch *cacheaside.Orchestrator, opts ...Option) *Adapter {
	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	a := &Adapter{
		http: upstream.New(upstream.Options{Service: service, BaseURL: base, Timeout: cfg.Timeout}),
		orch: orch,
		ttl:  orch.TTL().Calendar,
		log:  logger.Named(service),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ISODate formats t as YYYY-MM-DD in its own location
func ISODate(t time.Time) string { return t.Format(isoLayout) }

// DatePaths lists the candidate routes for a gregorian to coptic conversion
func DatePaths(iso string) []string {
	return []string{
		"api/v1/calendar/gregorian/" + iso,
		"api/calendar/gregorian/" + iso,
		"calendar/gregorian/" + iso,
		"api/v1/calendar/day?date=" + iso,
		"calendar/day?date=" + iso,
	}
}

// ReadingsPaths lists the candidate routes for a coptic day's readings
func ReadingsPaths(year, month, day int) []string {
	ymd := fmt.Sprintf("%d/%d/%d", year, month, day)
	return []string{
		"api/v1/readings/" + ymd,
		"api/readings/" + ymd,
		"readings/" + ymd,
		"api/v1/calendar/coptic/" + ymd,
		"calendar/coptic/" + ymd,
	}
}

// request walks paths and returns the first decoded payload; a 204 is a success with a nil payload
func (a *Adapter) request(ctx context.Context, paths []string) (any, []fallback.Attempt, error) {
	out, err := fallback.Run(ctx, paths, func(ctx context.Context, p string) (any, error) {
		return a.http.GetTree(ctx, p, nil, nil)
	})
	for _, at := range out.Attempts {
		if a.onAttempt != nil {
			a.onAttempt(at)
		}
		if !at.OK() {
			a.log.Debug().Str("path", at.Candidate).Err(at.Err).Msg("candidate failed")
		}
	}
	var ex *fallback.Exhausted
	if errors.As(err, &ex) {
		return nil, out.Attempts, ex.Last
	}
	if err != nil {
		return nil, out.Attempts, err
	}
	return out.Value, out.Attempts, nil
}

func parseISO(iso string) (string, error) {
	iso = strings.TrimSpace(iso)
	if _, err := time.Parse(isoLayout, iso); err != nil {
		return "", perr.WithField(perr.InvalidArgf("date must be YYYY-MM-DD, got %q", iso), "date")
	}
	return iso, nil
}

// GetCopticDate converts a YYYY-MM-DD gregorian date; the month name is localized for lang
func (a *Adapter) GetCopticDate(ctx context.Context, iso, lang string) (Result[CopticDate], error) {
	iso, err := parseISO(iso)
	if err != nil {
		return Result[CopticDate]{}, err
	}
	var attempts []fallback.Attempt
	r, err := cacheaside.Fetch(ctx, a.orch, "calendar:date:"+iso, a.ttl, func(ctx context.Context) (upstreamDate, error) {
		payload, tried, err := a.request(ctx, DatePaths(iso))
		attempts = tried
		if err != nil {
			return upstreamDate{}, err
		}
		return parseDate(payload, iso)
	})
	if err != nil {
		return Result[CopticDate]{Attempts: attempts}, err
	}
	return Result[CopticDate]{
		Value:     r.Value.localize(lang),
		Source:    r.Source,
		WrittenAt: r.WrittenAt,
		Attempts:  attempts,
	}, nil
}

// GetDailyReadings fetches the readings of a coptic day
func (a *Adapter) GetDailyReadings(ctx context.Context, d CopticDate) (Result[DailyReadings], error) {
	if d.Month < 1 || d.Month > Months || d.Day < 1 || d.Day > 31 {
		return Result[DailyReadings]{}, perr.InvalidArgf("coptic date %d-%d-%d is out of range", d.Year, d.Month, d.Day)
	}
	key := fmt.Sprintf("calendar:readings:%d-%d-%d", d.Year, d.Month, d.Day)
	var attempts []fallback.Attempt
	r, err := cacheaside.Fetch(ctx, a.orch, key, a.ttl, func(ctx context.Context) (DailyReadings, error) {
		payload, tried, err := a.request(ctx, ReadingsPaths(d.Year, d.Month, d.Day))
		attempts = tried
		if err != nil {
			return DailyReadings{}, err
		}
		return ParseReadings(payload), nil
	})
	if err != nil {
		return Result[DailyReadings]{Attempts: attempts}, err
	}
	return Result[DailyReadings]{Value: r.Value, Source: r.Source, WrittenAt: r.WrittenAt, Attempts: attempts}, nil
}

// GetDailyReadingsFor converts iso and fetches that day's readings
func (a *Adapter) GetDailyReadingsFor(ctx context.Context, iso, lang string) (Day, error) {
	date, err := a.GetCopticDate(ctx, iso, lang)
	if err != nil {
		return Day{Date: date}, err
	}
	readings, err := a.GetDailyReadings(ctx, date.Value)
	if err != nil {
		return Day{Date: date, Readings: readings}, err
	}
	return Day{Date: date, Readings: readings}, nil
}
