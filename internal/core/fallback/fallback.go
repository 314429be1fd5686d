// Package fallback tries an ordered list of candidates until one succeeds
package fallback

import (
	"context"
	"fmt"
	"strings"
	"time"

	perr "lectern/internal/platform/errors"
)

// Attempt records one candidate try; Err is nil for the winning attempt
type Attempt struct {
	Candidate string
	Err       error
	Latency   time.Duration
}

// OK reports a successful attempt
func (a Attempt) OK() bool { return a.Err == nil }

// Outcome is the result of a chain run
// Winner indexes Attempts and is -1 when every candidate failed
type Outcome[T any] struct {
	Value    T
	Winner   int
	Attempts []Attempt
}

// Exhausted wraps the last candidate's error
type Exhausted struct {
	Tried int
	Last  error
}

func (e *Exhausted) Error() string {
	return fmt.Sprintf("all %d candidates failed: %v", e.Tried, e.Last)
}

func (e *Exhausted) Unwrap() error { return e.Last }

// Candidates trims, drops empties and drops duplicates keeping the first
func Candidates(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Run calls try for each candidate in order and stops at the first success
// On exhaustion the returned error wraps the last failure; no candidates is a config error
func Run[T any](ctx context.Context, candidates []string, try func(context.Context, string) (T, error)) (Outcome[T], error) {
	out := Outcome[T]{Winner: -1}
	cands := Candidates(candidates)
	if len(cands) == 0 {
		return out, perr.Configf("fallback: no candidates")
	}

	var last error
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			if last == nil {
				last = err
			}
			break
		}
		start := time.Now()
		v, err := try(ctx, c)
		out.Attempts = append(out.Attempts, Attempt{Candidate: c, Err: err, Latency: time.Since(start)})
		if err == nil {
			out.Value = v
			out.Winner = len(out.Attempts) - 1
			return out, nil
		}
		last = err
	}
	return out, &Exhausted{Tried: len(out.Attempts), Last: last}
}
