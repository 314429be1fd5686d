package testkit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// Upstream is a fake upstream HTTP service that counts requests per path
type Upstream struct {
	*httptest.Server

	total atomic.Int64
	mu    sync.Mutex
	paths map[string]int
	order []string
}

// NewUpstream starts a server dispatching to h and closes it on test cleanup
func NewUpstream(t *testing.T, h http.HandlerFunc) *Upstream {
	t.Helper()
	u := &Upstream{paths: map[string]int{}}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.total.Add(1)
		u.mu.Lock()
		u.paths[r.URL.Path]++
		u.order = append(u.order, r.URL.RequestURI())
		u.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

// Hits returns the total request count
func (u *Upstream) Hits() int { return int(u.total.Load()) }

// HitsFor returns the request count for one path
func (u *Upstream) HitsFor(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.paths[path]
}

// Requests returns request URIs in arrival order
func (u *Upstream) Requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.order...)
}

// JSON writes body with the given status as application/json
func JSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
