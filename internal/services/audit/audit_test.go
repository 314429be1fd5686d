package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lectern/internal/core/cacheaside"
	"lectern/internal/core/fallback"
)

type fakeCH struct {
	mu      sync.Mutex
	tables  []string
	rows    [][]any
	batches int
	err     error
	ddl     []string
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = append(f.tables, table)
	f.batches++
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.ddl = append(f.ddl, sql)
	return nil
}

func (f *fakeCH) snapshot() ([][]any, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.rows...), f.batches
}

func TestSink_CloseFlushes(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	s := New(ch, Config{BatchSize: 100, FlushEvery: time.Hour})

	at := time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)
	s.Observe(cacheaside.Event{Key: "calendar:date:2024-01-07", Source: cacheaside.SourceFresh, At: at, Latency: 42 * time.Millisecond})
	s.Observe(cacheaside.Event{Key: "scripture:books", Source: cacheaside.SourceStale, At: at, Err: errors.New("boom")})

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	rows, batches := ch.snapshot()
	if batches != 1 || len(rows) != 2 {
		t.Fatalf("batches=%d rows=%d", batches, len(rows))
	}
	if ch.tables[0] != Table {
		t.Fatalf("table %q", ch.tables[0])
	}
	if rows[0][2] != "calendar:date:2024-01-07" || rows[0][3] != "fresh" || rows[0][4] != uint32(42) {
		t.Fatalf("row0 %v", rows[0])
	}
	if rows[1][3] != "stale" || rows[1][5] != "boom" {
		t.Fatalf("row1 %v", rows[1])
	}
}

func TestSink_FlushesOnBatchSize(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	s := New(ch, Config{BatchSize: 2, FlushEvery: time.Hour})
	defer func() { _ = s.Close(context.Background()) }()

	s.Record(Event{Key: "a", Source: "cache"})
	s.Record(Event{Key: "b", Source: "cache"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rows, _ := ch.snapshot(); len(rows) == 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("batch was not flushed on size")
}

func TestSink_FlushesOnInterval(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	s := New(ch, Config{BatchSize: 100, FlushEvery: 10 * time.Millisecond})
	defer func() { _ = s.Close(context.Background()) }()

	s.Record(Event{Key: "a", Source: "fresh"})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rows, _ := ch.snapshot(); len(rows) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("batch was not flushed on interval")
}

func TestSink_AttemptRows(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := New(ch, Config{}, WithClock(func() time.Time { return now }))

	s.Attempt(fallback.Attempt{Candidate: "api/v1/readings/1740/8/23", Err: errors.New("404"), Latency: time.Second})
	s.Attempt(fallback.Attempt{Candidate: "api/readings/1740/8/23", Latency: 3 * time.Millisecond})
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	rows, _ := ch.snapshot()
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0][3] != SourceAttempt || rows[0][5] != "404" || rows[0][4] != uint32(1000) {
		t.Fatalf("row0 %v", rows[0])
	}
	if rows[1][1] != now || rows[1][5] != "" {
		t.Fatalf("row1 %v", rows[1])
	}
}

func TestSink_NilInserterAndLateRecords(t *testing.T) {
	t.Parallel()
	s := New(nil, Config{})
	s.Record(Event{Key: "a"})
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	// after Close the sink ignores input and a second Close is a no op
	s.Record(Event{Key: "b"})
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestSink_InsertErrorIsSwallowed(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{err: errors.New("down")}
	s := New(ch, Config{})
	s.Record(Event{Key: "a"})
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, batches := ch.snapshot(); batches != 1 {
		t.Fatalf("batches=%d", batches)
	}
}

func TestEnsure(t *testing.T) {
	t.Parallel()
	ch := &fakeCH{}
	if err := Ensure(context.Background(), ch); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if len(ch.ddl) != 1 || ch.ddl[0] != DDL {
		t.Fatalf("ddl %v", ch.ddl)
	}
	if err := Ensure(context.Background(), nil); err != nil {
		t.Fatalf("nil execer: %v", err)
	}
}
