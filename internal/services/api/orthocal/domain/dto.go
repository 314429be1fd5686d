// Package domain holds Orthodox calendar API inputs, outputs and the port handlers consume
package domain

import (
	"context"
	"time"

	"lectern/internal/adapters/orthocal"
	"lectern/internal/core/cacheaside"
)

// DayQuery names one gregorian day; a longer timestamp is cut to its date
type DayQuery struct {
	Date string `query:"date" validate:"required,min=10,max=40"`
}

// DayView is the payload of GET /orthocal/day
type DayView struct {
	Date     string                       `json:"date"`
	Readings []orthocal.Reading           `json:"readings"`
	Feasts   []orthocal.Feast             `json:"feasts"`
	Fasts    []orthocal.Fast              `json:"fasts"`
	Sources  map[string]cacheaside.Source `json:"sources"`
}

// Combine reports the weakest provenance among parts: stale over fresh over cache
func Combine(parts ...cacheaside.Source) cacheaside.Source {
	out := cacheaside.SourceCache
	for _, s := range parts {
		switch s {
		case cacheaside.SourceStale:
			return cacheaside.SourceStale
		case cacheaside.SourceFresh:
			out = cacheaside.SourceFresh
		}
	}
	return out
}

// Oldest returns the earliest non-zero time
func Oldest(ts ...time.Time) time.Time {
	var out time.Time
	for _, t := range ts {
		if t.IsZero() {
			continue
		}
		if out.IsZero() || t.Before(out) {
			out = t
		}
	}
	return out
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	GetDailyReadings(ctx context.Context, date string) (cacheaside.Result[[]orthocal.Reading], error)
	GetFeasts(ctx context.Context, date string) (cacheaside.Result[[]orthocal.Feast], error)
	GetFasts(ctx context.Context, date string) (cacheaside.Result[[]orthocal.Fast], error)
}

var _ ServicePort = (*orthocal.Adapter)(nil)
