package reqtoken

import (
	"sync"
	"testing"
)

func TestTracker_LatestWins(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	first := tr.Begin("chapter")
	second := tr.Begin("chapter")
	if first == second {
		t.Fatalf("tokens should differ")
	}
	if tr.Current("chapter", first) {
		t.Fatalf("superseded token still current")
	}
	if !tr.Current("chapter", second) {
		t.Fatalf("latest token not current")
	}

	applied := ""
	if tr.Apply("chapter", first, func() { applied = "first" }) {
		t.Fatalf("late result applied")
	}
	if !tr.Apply("chapter", second, func() { applied = "second" }) || applied != "second" {
		t.Fatalf("current result not applied: %q", applied)
	}
}

func TestTracker_ScopesAreIndependent(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	a := tr.Begin("chapter")
	b := tr.Begin("search")
	if !tr.Current("chapter", a) || !tr.Current("search", b) {
		t.Fatalf("scopes interfere")
	}
	if tr.Current("search", a) {
		t.Fatalf("token leaked across scopes")
	}
}

func TestTracker_End(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	old := tr.Begin("s")
	cur := tr.Begin("s")
	tr.End("s", old)
	if !tr.Current("s", cur) {
		t.Fatalf("End with stale token cleared the scope")
	}
	tr.End("s", cur)
	if tr.Current("s", cur) {
		t.Fatalf("End did not clear")
	}
}

func TestTracker_EmptyTokenNeverCurrent(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	if tr.Current("s", "") || tr.Apply("s", "", func() {}) {
		t.Fatalf("empty token accepted")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := tr.Begin("s")
			_ = tr.Current("s", tok)
		}()
	}
	wg.Wait()
	last := tr.Begin("s")
	if !tr.Current("s", last) {
		t.Fatalf("final token not current")
	}
}
