package cacheaside

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lectern/internal/platform/cache"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type books []string

func counting(val books, err error) (func(context.Context) (books, error), *atomic.Int32) {
	var n atomic.Int32
	return func(context.Context) (books, error) {
		n.Add(1)
		return val, err
	}, &n
}

func newOrch(t *testing.T, s cache.Store, opts ...Option) (*Orchestrator, *clock) {
	t.Helper()
	c := newClock()
	opts = append([]Option{WithClock(c.Now)}, opts...)
	return New(s, DefaultConfig(), opts...), c
}

func TestFetch_FreshThenCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, c := newOrch(t, cache.NewMemory())
	fetch, n := counting(books{"GEN", "EXO"}, nil)

	r1, err := Fetch(ctx, o, "scripture:kjv:books", time.Hour, fetch)
	if err != nil || r1.Source != SourceFresh || len(r1.Value) != 2 {
		t.Fatalf("first call = %+v err=%v", r1, err)
	}

	c.Advance(59 * time.Minute)
	r2, err := Fetch(ctx, o, "scripture:kjv:books", time.Hour, fetch)
	if err != nil || r2.Source != SourceCache {
		t.Fatalf("second call = %+v err=%v", r2, err)
	}
	if n.Load() != 1 {
		t.Fatalf("fetcher ran %d times, want 1", n.Load())
	}
	if r2.Value[0] != "GEN" || r2.Value[1] != "EXO" {
		t.Fatalf("cached value = %v", r2.Value)
	}
	if !r2.WrittenAt.Equal(r1.WrittenAt) {
		t.Fatalf("WrittenAt changed: %v vs %v", r2.WrittenAt, r1.WrittenAt)
	}
}

func TestFetch_ExpiredRefetches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, c := newOrch(t, cache.NewMemory())
	fetch, n := counting(books{"GEN"}, nil)

	_, _ = Fetch(ctx, o, "k", time.Hour, fetch)
	c.Advance(time.Hour)
	r, err := Fetch(ctx, o, "k", time.Hour, fetch)
	if err != nil || r.Source != SourceFresh {
		t.Fatalf("expired call = %+v err=%v", r, err)
	}
	if n.Load() != 2 {
		t.Fatalf("fetcher ran %d times, want 2", n.Load())
	}
}

func TestFetch_StaleOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, c := newOrch(t, cache.NewMemory())
	ok, _ := counting(books{"GEN"}, nil)
	boom := errors.New("upstream down")
	bad, _ := counting(nil, boom)

	first, _ := Fetch(ctx, o, "k", time.Minute, ok)
	c.Advance(time.Hour)

	r, err := Fetch(ctx, o, "k", time.Minute, bad)
	if err != nil {
		t.Fatalf("stale path returned error: %v", err)
	}
	if r.Source != SourceStale || len(r.Value) != 1 || r.Value[0] != "GEN" {
		t.Fatalf("stale result = %+v", r)
	}
	if !errors.Is(r.Err, boom) {
		t.Fatalf("Result.Err = %v, want suppressed fetch error", r.Err)
	}
	if !r.WrittenAt.Equal(first.WrittenAt) {
		t.Fatalf("stale WrittenAt = %v, want %v", r.WrittenAt, first.WrittenAt)
	}
}

func TestFetch_ErrorWithoutCachePropagates(t *testing.T) {
	t.Parallel()
	o, _ := newOrch(t, cache.NewMemory())
	boom := errors.New("upstream down")
	bad, n := counting(nil, boom)

	_, err := Fetch(context.Background(), o, "k", time.Minute, bad)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if n.Load() != 1 {
		t.Fatalf("fetcher ran %d times, want exactly 1 (no retries)", n.Load())
	}
}

func TestFetch_NullPayloadIsNotServed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := cache.NewMemory()
	o, _ := newOrch(t, mem)

	var nilBooks books
	none, _ := counting(nilBooks, nil)
	if _, err := Fetch(ctx, o, "k", time.Hour, none); err != nil {
		t.Fatalf("fetch nil: %v", err)
	}

	some, n := counting(books{"GEN"}, nil)
	r, err := Fetch(ctx, o, "k", time.Hour, some)
	if err != nil || r.Source != SourceFresh || n.Load() != 1 {
		t.Fatalf("null payload served from cache: %+v err=%v", r, err)
	}

	boom := errors.New("x")
	mem2 := cache.NewMemory()
	o2, _ := newOrch(t, mem2)
	_, _ = Fetch(ctx, o2, "k", time.Hour, none)
	bad, _ := counting(nil, boom)
	if _, err := Fetch(ctx, o2, "k", 0, bad); !errors.Is(err, boom) {
		t.Fatalf("null payload used as stale: err=%v", err)
	}
}

func TestFetch_CorruptEnvelopeIsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := cache.NewMemory()
	_ = mem.Set(ctx, "lectern:cache:k", []byte("{not json"))
	o, _ := newOrch(t, mem)

	fetch, n := counting(books{"GEN"}, nil)
	r, err := Fetch(ctx, o, "k", time.Hour, fetch)
	if err != nil || r.Source != SourceFresh || n.Load() != 1 {
		t.Fatalf("corrupt envelope: %+v err=%v n=%d", r, err, n.Load())
	}
	if _, ok := o.Peek(ctx, "k"); !ok {
		t.Fatalf("envelope not rewritten after refetch")
	}

	_ = mem.Set(ctx, "lectern:cache:k", []byte("{not json"))
	boom := errors.New("x")
	bad, _ := counting(nil, boom)
	if _, err := Fetch(ctx, o, "k", time.Hour, bad); !errors.Is(err, boom) {
		t.Fatalf("corrupt envelope served as stale: %v", err)
	}
}

type failingStore struct{ cache.Store }

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}
func (failingStore) Set(context.Context, string, []byte) error { return errors.New("disk gone") }

func TestFetch_StoreFailuresAreNotFatal(t *testing.T) {
	t.Parallel()
	o, _ := newOrch(t, failingStore{cache.NewMemory()})
	fetch, _ := counting(books{"GEN"}, nil)
	r, err := Fetch(context.Background(), o, "k", time.Hour, fetch)
	if err != nil || r.Source != SourceFresh || r.Value[0] != "GEN" {
		t.Fatalf("result = %+v err=%v", r, err)
	}
}

func TestFetch_NamespaceApplied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := cache.NewMemory()
	o := New(mem, Config{Namespace: "test:", TTL: DefaultTTL()})
	fetch, _ := counting(books{"GEN"}, nil)
	_, _ = Fetch(ctx, o, "calendar:date:2024-01-07", time.Hour, fetch)
	if _, ok, _ := mem.Get(ctx, "test:calendar:date:2024-01-07"); !ok {
		t.Fatalf("namespaced key not written")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, _ := newOrch(t, cache.NewMemory())
	fetch, n := counting(books{"GEN"}, nil)
	_, _ = Fetch(ctx, o, "k", time.Hour, fetch)
	if err := o.Clear(ctx, "k"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	r, _ := Fetch(ctx, o, "k", time.Hour, fetch)
	if r.Source != SourceFresh || n.Load() != 2 {
		t.Fatalf("after Clear: %+v n=%d", r, n.Load())
	}
}

func TestObserver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var mu sync.Mutex
	var events []Event
	o, c := newOrch(t, cache.NewMemory(), WithObserver(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))
	ok, _ := counting(books{"GEN"}, nil)
	bad, _ := counting(nil, errors.New("x"))

	_, _ = Fetch(ctx, o, "k", time.Hour, ok)
	_, _ = Fetch(ctx, o, "k", time.Hour, ok)
	c.Advance(2 * time.Hour)
	_, _ = Fetch(ctx, o, "k", time.Hour, bad)
	_, _ = Fetch(ctx, o, "other", time.Hour, bad)

	want := []Source{SourceFresh, SourceCache, SourceStale, ""}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].Source != w {
			t.Fatalf("event %d source = %q, want %q", i, events[i].Source, w)
		}
	}
	if events[3].Err == nil || events[3].Key != "other" {
		t.Fatalf("failure event = %+v", events[3])
	}
}

// countingStore lets the test see when every caller has read the envelope
type countingStore struct {
	cache.Store
	gets atomic.Int32
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.gets.Add(1)
	return s.Store.Get(ctx, key)
}

func TestFetch_ConcurrentCallsShareOneFetch(t *testing.T) {
	t.Parallel()
	const callers = 8
	st := &countingStore{Store: cache.NewMemory()}
	o := New(st, DefaultConfig())

	release := make(chan struct{})
	var n atomic.Int32
	fetch := func(context.Context) (books, error) {
		n.Add(1)
		<-release
		return books{"GEN"}, nil
	}

	var wg sync.WaitGroup
	results := make([]Result[books], callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Fetch(context.Background(), o, "k", time.Hour, fetch)
		}(i)
	}

	deadline := time.Now().Add(5 * time.Second)
	for st.gets.Load() < callers && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if n.Load() != 1 {
		t.Fatalf("fetcher ran %d times, want 1", n.Load())
	}
	for i := range results {
		if errs[i] != nil || results[i].Source != SourceFresh || results[i].Value[0] != "GEN" {
			t.Fatalf("caller %d: %+v err=%v", i, results[i], errs[i])
		}
	}
}

func TestFetch_CanceledCallerDoesNotFailSharedFetch(t *testing.T) {
	t.Parallel()
	st := &countingStore{Store: cache.NewMemory()}
	o := New(st, DefaultConfig())

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (books, error) {
		close(started)
		select {
		case <-release:
			return books{"PSA"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := Fetch(ctxA, o, "psalms", time.Hour, fetch)
		errA <- err
	}()
	<-started

	type outcome struct {
		res Result[books]
		err error
	}
	outB := make(chan outcome, 1)
	go func() {
		res, err := Fetch(context.Background(), o, "psalms", time.Hour, fetch)
		outB <- outcome{res, err}
	}()
	deadline := time.Now().Add(5 * time.Second)
	for st.gets.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("caller A err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("caller A did not return after cancel")
	}

	close(release)
	got := <-outB
	if got.err != nil || got.res.Source != SourceFresh || got.res.Value[0] != "PSA" {
		t.Fatalf("caller B: %+v err=%v", got.res, got.err)
	}
	if _, ok, _ := o.store.Get(context.Background(), "psalms"); !ok {
		t.Fatalf("shared fetch result was not stored")
	}
}

func TestFetch_SharedFetchIsBounded(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.FlightTimeout = 20 * time.Millisecond
	o := New(cache.NewMemory(), cfg)

	_, err := Fetch(context.Background(), o, "slow", time.Hour, func(ctx context.Context) (books, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CACHE_TTL_SEARCH", "5m")
	t.Setenv("CACHE_NAMESPACE", "x:")
	c, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if c.TTL.Search != 5*time.Minute || c.Namespace != "x:" {
		t.Fatalf("unexpected %+v", c)
	}
	if c.TTL.Books != DefaultTTL().Books {
		t.Fatalf("default books ttl = %v", c.TTL.Books)
	}
}
