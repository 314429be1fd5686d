// Package http provides http transport for the Orthodox calendar
package http

import (
	stdhttp "net/http"

	"golang.org/x/sync/errgroup"

	"lectern/internal/adapters/orthocal"
	"lectern/internal/core/cacheaside"
	"lectern/internal/core/reqtoken"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/api/orthocal/domain"
)

// Register mounts orthocal endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, tokens *reqtoken.Tracker) {
	h := &handlers{svc: s, tokens: tokens}

	httpkit.GetQuery[domain.DayQuery](r, "/day", h.day)
}

type handlers struct {
	svc    domain.ServicePort
	tokens *reqtoken.Tracker
}

// GET /orthocal/day: readings, feasts and fasts of one day
func (h *handlers) day(r *stdhttp.Request, in domain.DayQuery) (any, error) {
	day, err := orthocal.DateParam(in.Date)
	if err != nil {
		return nil, err
	}
	k := httpkit.Begin(r, h.tokens, "orthocal.day")

	var (
		readings cacheaside.Result[[]orthocal.Reading]
		feasts   cacheaside.Result[[]orthocal.Feast]
		fasts    cacheaside.Result[[]orthocal.Fast]
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { readings, err = h.svc.GetDailyReadings(ctx, day); return err })
	g.Go(func() (err error) { feasts, err = h.svc.GetFeasts(ctx, day); return err })
	g.Go(func() (err error) { fasts, err = h.svc.GetFasts(ctx, day); return err })
	if err := g.Wait(); err != nil {
		return nil, k.Fail(err)
	}

	v := domain.DayView{
		Date:     day,
		Readings: readings.Value,
		Feasts:   feasts.Value,
		Fasts:    fasts.Value,
		Sources: map[string]cacheaside.Source{
			"readings": readings.Source,
			"feasts":   feasts.Source,
			"fasts":    fasts.Source,
		},
	}
	src := domain.Combine(readings.Source, feasts.Source, fasts.Source)
	return k.Wrap(v, src, domain.Oldest(readings.WrittenAt, feasts.WrittenAt, fasts.WrittenAt)), nil
}
