// Package service provides the cache warm-up runner
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"lectern/internal/core/cacheaside"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	ptime "lectern/internal/platform/time"
	"lectern/internal/services/warm/domain"
)

// Config tunes the runner
type Config struct {
	Workers    int           // items in flight; <=0 means 1
	DelayPerIt time.Duration // pause after each item, per worker

	MaxRetries int           // attempts per item; <=0 means 1
	RetryBase  time.Duration // first backoff; <=0 means 500ms

	// ItemTimeout bounds one item including retries; 0 = none
	ItemTimeout time.Duration

	// MaxRangeDays guards accidental huge ranges; 0 = unlimited
	MaxRangeDays int
}

// Service implements domain.RunnerPort
type Service struct {
	Calendar  domain.CalendarPort
	Scripture domain.ScripturePort
	Cfg       Config
}

// New constructs the warm service
func New(cal domain.CalendarPort, scr domain.ScripturePort, cfg Config) *Service {
	if cal == nil || scr == nil {
		panic("warm.Service requires calendar and scripture ports")
	}
	return &Service{Calendar: cal, Scripture: scr, Cfg: cfg}
}

// Run warms every item of p and reports per-item sources
// the error is non nil when the plan is invalid or any item failed without a stale value
func (s *Service) Run(ctx context.Context, p domain.Plan) (domain.Report, error) {
	var rep domain.Report
	if p.End.Before(p.Start) {
		return rep, perr.InvalidArgf("end before start")
	}
	if s.Cfg.MaxRangeDays > 0 && p.Days() > s.Cfg.MaxRangeDays {
		return rep, perr.InvalidArgf("range of %d days exceeds %d", p.Days(), s.Cfg.MaxRangeDays)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(max(s.Cfg.Workers, 1))
	for _, it := range p.Items() {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o := s.warm(ctx, it)
			log := logger.C(ctx)
			if o.Failed() {
				log.Error().Str("item", it.String()).Err(o.Err).Msg("warm: item failed")
			} else {
				log.Debug().Str("item", it.String()).Str("source", string(o.Source)).Dur("elapsed", o.Elapsed).Msg("warm: item done")
			}
			mu.Lock()
			rep.Add(o)
			mu.Unlock()
			pause(ctx, s.Cfg.DelayPerIt)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(rep.Failures, func(i, j int) bool {
		return rep.Failures[i].Item.String() < rep.Failures[j].Item.String()
	})
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	if !rep.OK() {
		return rep, fmt.Errorf("warm: %d of %d items failed", len(rep.Failures), rep.Items)
	}
	return rep, nil
}

// warm runs one item, retrying transient failures with jittered exponential backoff
func (s *Service) warm(ctx context.Context, it domain.Item) domain.Outcome {
	if s.Cfg.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Cfg.ItemTimeout)
		defer cancel()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.Cfg.RetryBase
	if b.InitialInterval <= 0 {
		b.InitialInterval = 500 * time.Millisecond
	}
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	retries := uint64(max(s.Cfg.MaxRetries, 1) - 1)

	began := time.Now()
	var o domain.Outcome
	_ = backoff.Retry(func() error {
		o = s.runItem(ctx, it)
		switch {
		case !o.Failed():
			return nil
		case perr.Retryable(o.Err):
			return o.Err
		default:
			return backoff.Permanent(o.Err)
		}
	}, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx))
	o.Elapsed = time.Since(began)
	return o
}

func (s *Service) runItem(ctx context.Context, it domain.Item) domain.Outcome {
	o := domain.Outcome{Item: it}
	switch it.Kind {
	case domain.KindDay:
		day, err := s.Calendar.GetDailyReadingsFor(ctx, ptime.Date(it.Date), it.Lang)
		o.Err = err
		o.Source = worst(day.Date.Source, day.Readings.Source)
	case domain.KindBooks:
		r, err := s.Scripture.GetBooks(ctx, it.Translation, it.Lang)
		o.Err = err
		o.Source = r.Source
	default:
		o.Err = perr.InvalidArgf("unknown warm item %q", it.Kind)
	}
	return o
}

// worst returns the weakest provenance: stale, then fresh, then cache
func worst(srcs ...cacheaside.Source) cacheaside.Source {
	rank := map[cacheaside.Source]int{cacheaside.SourceCache: 1, cacheaside.SourceFresh: 2, cacheaside.SourceStale: 3}
	var out cacheaside.Source
	for _, s := range srcs {
		if rank[s] > rank[out] {
			out = s
		}
	}
	return out
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
