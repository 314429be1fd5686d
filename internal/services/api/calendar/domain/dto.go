// Package domain holds calendar API inputs, outputs and the port handlers consume
package domain

import (
	"context"
	"time"

	"lectern/internal/adapters/calendar"
	"lectern/internal/core/fallback"
	perr "lectern/internal/platform/errors"
)

// DateQuery converts one gregorian date
type DateQuery struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
	Lang string `query:"lang" validate:"omitempty,max=16"`
}

// ReadingsQuery selects a day either by gregorian date or by coptic year, month and day
type ReadingsQuery struct {
	Date  string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Lang  string `query:"lang" validate:"omitempty,max=16"`
	Year  int    `query:"year" validate:"omitempty,min=1"`
	Month int    `query:"month" validate:"omitempty,min=1,max=13"`
	Day   int    `query:"day" validate:"omitempty,min=1,max=31"`
}

// Check enforces that exactly one way of naming the day is complete
func (q ReadingsQuery) Check() error {
	switch {
	case q.Date != "":
		return nil
	case q.Month == 0:
		return perr.WithField(perr.InvalidArgf("date or month and day are required"), "date")
	case q.Day == 0:
		return perr.WithField(perr.InvalidArgf("day is required with month"), "day")
	}
	return nil
}

// Attempt is one endpoint tried while resolving a calendar value
type Attempt struct {
	Path      string `json:"path"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latencyMs"`
}

// Attempts renders fallback attempts for the wire
func Attempts(in []fallback.Attempt) []Attempt {
	out := make([]Attempt, 0, len(in))
	for _, a := range in {
		v := Attempt{Path: a.Candidate, LatencyMs: a.Latency.Milliseconds()}
		if a.Err != nil {
			v.Error = a.Err.Error()
		}
		out = append(out, v)
	}
	return out
}

// DateView is the payload of GET /calendar/date
type DateView struct {
	Gregorian string              `json:"gregorian"`
	Coptic    calendar.CopticDate `json:"coptic"`
	Attempts  []Attempt           `json:"attempts"`
}

// ReadingsView is the payload of GET /calendar/readings
type ReadingsView struct {
	Gregorian string                 `json:"gregorian,omitempty"`
	Coptic    calendar.CopticDate    `json:"coptic"`
	Readings  calendar.DailyReadings `json:"readings"`
	DateFrom  string                 `json:"dateSource,omitempty"`
	DateAt    *time.Time             `json:"dateWrittenAt,omitempty"`
	Attempts  []Attempt              `json:"attempts"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	GetCopticDate(ctx context.Context, iso, lang string) (calendar.Result[calendar.CopticDate], error)
	GetDailyReadings(ctx context.Context, d calendar.CopticDate) (calendar.Result[calendar.DailyReadings], error)
	GetDailyReadingsFor(ctx context.Context, iso, lang string) (calendar.Day, error)
}

var _ ServicePort = (*calendar.Adapter)(nil)
