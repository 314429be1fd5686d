// Package cacheaside wraps upstream fetches with a TTL bounded cache and stale on error fallback
//
// A call reads the stored envelope, serves it while fresh, otherwise fetches and persists.
// When the fetch fails and an older envelope exists, the older payload is served as stale.
// Nothing here retries; concurrent calls for one key share a single fetch.
package cacheaside

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"lectern/internal/platform/cache"
	"lectern/internal/platform/logger"
)

// Source says where a Result value came from
type Source string

const (
	SourceFresh Source = "fresh"
	SourceCache Source = "cache"
	SourceStale Source = "stale"
)

// Envelope is the persisted form of a cached value
type Envelope struct {
	WrittenAt time.Time       `json:"writtenAt"`
	Payload   json.RawMessage `json:"payload"`
}

// defined reports a payload that is present and not JSON null
func (e Envelope) defined() bool {
	p := bytes.TrimSpace(e.Payload)
	return len(p) > 0 && !bytes.Equal(p, []byte("null"))
}

// Result carries the value and its provenance
// Err is the suppressed fetch error when Source is stale
type Result[T any] struct {
	Value     T
	Source    Source
	WrittenAt time.Time
	Err       error
}

// Event is reported to the observer once per Fetch
type Event struct {
	Key     string
	Source  Source
	At      time.Time
	Latency time.Duration
	Err     error
}

// Observer receives one Event per Fetch; it must not block
type Observer func(Event)

// Orchestrator owns the store, TTL table and in flight fetches
type Orchestrator struct {
	store   cache.Store
	cfg     Config
	now     func() time.Time
	observe Observer
	log     *logger.Logger
	group   singleflight.Group
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithObserver installs fn as the per call event hook
func WithObserver(fn Observer) Option { return func(o *Orchestrator) { o.observe = fn } }

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// WithLogger replaces the component logger
func WithLogger(l *logger.Logger) Option { return func(o *Orchestrator) { o.log = l } }

// New wraps store under cfg.Namespace
func New(store cache.Store, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store: cache.Namespaced(store, cfg.Namespace),
		cfg:   cfg,
		now:   time.Now,
	}
	for _, fn := range opts {
		fn(o)
	}
	if o.log == nil {
		o.log = logger.Named("cacheaside")
	}
	return o
}

// TTL returns the injected TTL table
func (o *Orchestrator) TTL() TTLTable { return o.cfg.TTL }

// Clear drops the stored envelope for key
func (o *Orchestrator) Clear(ctx context.Context, key string) error {
	return o.store.Delete(ctx, key)
}

// Peek returns the stored envelope for key without fetching
func (o *Orchestrator) Peek(ctx context.Context, key string) (Envelope, bool) {
	return o.read(ctx, key)
}

// read never fails: backend and decode errors count as absent
func (o *Orchestrator) read(ctx context.Context, key string) (Envelope, bool) {
	raw, ok, err := o.store.Get(ctx, key)
	if err != nil {
		o.log.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		return Envelope{}, false
	}
	if !ok {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		o.log.Warn().Err(err).Str("key", key).Msg("corrupt cache envelope, treating as miss")
		return Envelope{}, false
	}
	return env, true
}

// write is best effort
func (o *Orchestrator) write(ctx context.Context, key string, at time.Time, payload []byte) {
	raw, err := json.Marshal(Envelope{WrittenAt: at, Payload: payload})
	if err != nil {
		o.log.Warn().Err(err).Str("key", key).Msg("encode cache envelope")
		return
	}
	if err := o.store.Set(ctx, key, raw); err != nil {
		o.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (o *Orchestrator) emit(key string, src Source, start time.Time, err error) {
	if o.observe == nil {
		return
	}
	now := o.now()
	o.observe(Event{Key: key, Source: src, At: now, Latency: now.Sub(start), Err: err})
}

type flight struct {
	value     any
	writtenAt time.Time
}

// Fetch runs the cache-aside policy for key
// the returned error is the fetch error, only when no usable stored value exists
func Fetch[T any](ctx context.Context, o *Orchestrator, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (Result[T], error) {
	start := o.now()
	prev, havePrev := o.read(ctx, key)

	var prevValue T
	prevUsable := false
	if havePrev && prev.defined() {
		if err := json.Unmarshal(prev.Payload, &prevValue); err != nil {
			o.log.Warn().Err(err).Str("key", key).Msg("cached payload does not decode, treating as miss")
		} else {
			prevUsable = true
		}
	}

	if prevUsable && start.Sub(prev.WrittenAt) < ttl {
		o.emit(key, SourceCache, start, nil)
		return Result[T]{Value: prevValue, Source: SourceCache, WrittenAt: prev.WrittenAt}, nil
	}

	ch := o.group.DoChan(key, func() (any, error) {
		// callers share this fetch, so it outlives any single caller's cancellation
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.flightTimeout())
		defer cancel()
		val, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		at := o.now()
		if payload, err := json.Marshal(val); err != nil {
			o.log.Warn().Err(err).Str("key", key).Msg("encode fetched value")
		} else {
			o.write(fctx, key, at, payload)
		}
		return flight{value: val, writtenAt: at}, nil
	})

	var (
		v   any
		err error
	)
	select {
	case r := <-ch:
		v, err = r.Val, r.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		if prevUsable {
			o.log.Warn().Err(err).Str("key", key).Time("written_at", prev.WrittenAt).Msg("fetch failed, serving stale")
			o.emit(key, SourceStale, start, err)
			return Result[T]{Value: prevValue, Source: SourceStale, WrittenAt: prev.WrittenAt, Err: err}, nil
		}
		o.emit(key, "", start, err)
		return Result[T]{}, err
	}

	f := v.(flight)
	val, ok := f.value.(T)
	if !ok {
		// same key fetched as a different type by a concurrent caller
		direct, derr := fetch(ctx)
		if derr != nil {
			o.emit(key, "", start, derr)
			return Result[T]{}, derr
		}
		val = direct
	}
	o.emit(key, SourceFresh, start, nil)
	return Result[T]{Value: val, Source: SourceFresh, WrittenAt: f.writtenAt}, nil
}
