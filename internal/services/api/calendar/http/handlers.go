// Package http provides http transport for the coptic calendar
package http

import (
	stdhttp "net/http"

	"lectern/internal/adapters/calendar"
	"lectern/internal/core/fallback"
	"lectern/internal/core/reqtoken"
	"lectern/internal/modkit/httpkit"
	ptime "lectern/internal/platform/time"
	"lectern/internal/services/api/calendar/domain"
)

// Register mounts calendar endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, tokens *reqtoken.Tracker) {
	h := &handlers{svc: s, tokens: tokens}

	httpkit.GetQuery[domain.DateQuery](r, "/date", h.date)
	httpkit.GetQuery[domain.ReadingsQuery](r, "/readings", h.readings)
}

type handlers struct {
	svc    domain.ServicePort
	tokens *reqtoken.Tracker
}

// GET /calendar/date: coptic date for a gregorian date
func (h *handlers) date(r *stdhttp.Request, in domain.DateQuery) (any, error) {
	k := httpkit.Begin(r, h.tokens, "calendar.date")
	res, err := h.svc.GetCopticDate(r.Context(), in.Date, in.Lang)
	if err != nil {
		return nil, k.Fail(err)
	}
	v := domain.DateView{Gregorian: in.Date, Coptic: res.Value, Attempts: domain.Attempts(res.Attempts)}
	return k.Wrap(v, res.Source, res.WrittenAt), nil
}

// GET /calendar/readings: daily readings by gregorian date or coptic month and day
func (h *handlers) readings(r *stdhttp.Request, in domain.ReadingsQuery) (any, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	k := httpkit.Begin(r, h.tokens, "calendar.readings")
	if in.Date == "" {
		d := calendar.CopticDate{Year: in.Year, Month: in.Month, Day: in.Day, MonthName: calendar.MonthName(in.Month, in.Lang, "")}
		res, err := h.svc.GetDailyReadings(r.Context(), d)
		if err != nil {
			return nil, k.Fail(err)
		}
		v := domain.ReadingsView{Coptic: d, Readings: res.Value, Attempts: domain.Attempts(res.Attempts)}
		return k.Wrap(v, res.Source, res.WrittenAt), nil
	}

	day, err := h.svc.GetDailyReadingsFor(r.Context(), in.Date, in.Lang)
	if err != nil {
		return nil, k.Fail(err)
	}
	v := domain.ReadingsView{
		Gregorian: in.Date,
		Coptic:    day.Date.Value,
		Readings:  day.Readings.Value,
		DateFrom:  string(day.Date.Source),
		DateAt:    ptime.Ptr(day.Date.WrittenAt),
		Attempts:  domain.Attempts(append(append([]fallback.Attempt(nil), day.Date.Attempts...), day.Readings.Attempts...)),
	}
	return k.Wrap(v, day.Readings.Source, day.Readings.WrittenAt), nil
}
