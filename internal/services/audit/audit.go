// Package audit records cache-aside fetch events and endpoint fallback attempts
//
// Events are buffered and written to ClickHouse in batches. Without a ClickHouse seam the
// sink only logs at debug so callers can wire it unconditionally.
package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"lectern/internal/core/cacheaside"
	"lectern/internal/core/fallback"
	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
)

// Table is the destination table name
const Table = "lectern_fetch_events"

// DDL creates Table when missing
const DDL = `CREATE TABLE IF NOT EXISTS ` + Table + ` (
	id         UUID,
	at         DateTime64(3, 'UTC'),
	key        String,
	source     LowCardinality(String),
	latency_ms UInt32,
	error      String
) ENGINE = MergeTree
ORDER BY (at, key)`

// SourceAttempt marks rows that come from a fallback attempt rather than a cache read
const SourceAttempt = "attempt"

// Inserter is the batch write seam, satisfied by store.Clickhouse
type Inserter interface {
	Insert(ctx context.Context, table string, rows [][]any) error
}

// Execer runs DDL, satisfied by store.Clickhouse
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Config tunes buffering, decoded from AUDIT_*
type Config struct {
	BatchSize    int           `env:"BATCH_SIZE" envDefault:"256"`
	FlushEvery   time.Duration `env:"FLUSH_EVERY" envDefault:"5s"`
	Buffer       int           `env:"BUFFER" envDefault:"4096"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}

// ConfigFromEnv decodes AUDIT_*
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := config.Load(config.New().Prefix("AUDIT_"), &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 256
	}
	if c.FlushEvery <= 0 {
		c.FlushEvery = 5 * time.Second
	}
	if c.Buffer <= 0 {
		c.Buffer = 4096
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c
}

// Event is one audit row
type Event struct {
	ID      uuid.UUID
	At      time.Time
	Key     string
	Source  string
	Latency time.Duration
	Err     string
}

func (e Event) row() []any {
	ms := e.Latency.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return []any{e.ID, e.At.UTC(), e.Key, e.Source, uint32(ms), e.Err}
}

// Sink buffers events and flushes them on size, on interval and on Close
type Sink struct {
	ins Inserter
	cfg Config
	log *logger.Logger
	now func() time.Time

	mu      sync.RWMutex
	closed  bool
	in      chan Event
	done    chan struct{}
	dropped atomic.Int64
}

// Option configures a Sink
type Option func(*Sink)

// WithLogger replaces the component logger
func WithLogger(l *logger.Logger) Option { return func(s *Sink) { s.log = l } }

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(s *Sink) { s.now = now } }

// New starts a sink; ins may be nil
func New(ins Inserter, cfg Config, opts ...Option) *Sink {
	cfg = cfg.withDefaults()
	s := &Sink{
		ins:  ins,
		cfg:  cfg,
		now:  time.Now,
		in:   make(chan Event, cfg.Buffer),
		done: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.Named("audit")
	}
	go s.loop()
	return s
}

// Ensure creates the audit table
func Ensure(ctx context.Context, ex Execer) error {
	if ex == nil {
		return nil
	}
	return ex.Exec(ctx, DDL)
}

// Observe is a cacheaside.Observer
func (s *Sink) Observe(ev cacheaside.Event) {
	e := Event{Key: ev.Key, Source: string(ev.Source), At: ev.At, Latency: ev.Latency}
	if ev.Err != nil {
		e.Err = ev.Err.Error()
	}
	s.Record(e)
}

// Attempt records one fallback candidate
func (s *Sink) Attempt(a fallback.Attempt) {
	e := Event{Key: a.Candidate, Source: SourceAttempt, Latency: a.Latency}
	if a.Err != nil {
		e.Err = a.Err.Error()
	}
	s.Record(e)
}

// Record enqueues e without blocking; events are dropped when the buffer is full or the sink is closed
func (s *Sink) Record(e Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = s.now()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.in <- e:
	default:
		s.dropped.Add(1)
	}
}

// Dropped reports how many events did not fit the buffer
func (s *Sink) Dropped() int64 { return s.dropped.Load() }

// Close stops intake and flushes what is buffered; ctx bounds the wait
func (s *Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.in)
	}
	s.mu.Unlock()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sink) loop() {
	defer close(s.done)
	t := time.NewTicker(s.cfg.FlushEvery)
	defer t.Stop()

	buf := make([]Event, 0, s.cfg.BatchSize)
	for {
		select {
		case e, ok := <-s.in:
			if !ok {
				s.flush(buf)
				return
			}
			buf = append(buf, e)
			if len(buf) >= s.cfg.BatchSize {
				s.flush(buf)
				buf = buf[:0]
			}
		case <-t.C:
			if len(buf) > 0 {
				s.flush(buf)
				buf = buf[:0]
			}
		}
	}
}

func (s *Sink) flush(batch []Event) {
	if len(batch) == 0 {
		return
	}
	if s.ins == nil {
		for _, e := range batch {
			s.log.Debug().
				Str("key", e.Key).
				Str("source", e.Source).
				Dur("latency", e.Latency).
				Str("error", e.Err).
				Msg("fetch event")
		}
		return
	}
	rows := make([][]any, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, e.row())
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.ins.Insert(ctx, Table, rows); err != nil {
		s.log.Warn().Err(err).Int("rows", len(rows)).Msg("audit batch dropped")
	}
}
