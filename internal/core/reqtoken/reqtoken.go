// Package reqtoken issues request tokens so late results can be discarded
//
// A caller starts work with Begin(scope) and applies the result only while its token
// is still the current one for that scope. A newer Begin supersedes older tokens.
package reqtoken

import (
	"sync"

	"github.com/google/uuid"
)

// Token identifies one request within a scope
type Token string

// New returns a fresh token not registered with any tracker
func New() Token { return Token(uuid.NewString()) }

// Tracker holds the active token per scope
type Tracker struct {
	mu     sync.Mutex
	active map[string]Token
}

// NewTracker returns an empty tracker
func NewTracker() *Tracker { return &Tracker{active: map[string]Token{}} }

// Begin issues a token and makes it current for scope
func (t *Tracker) Begin(scope string) Token {
	tok := New()
	t.mu.Lock()
	t.active[scope] = tok
	t.mu.Unlock()
	return tok
}

// Current reports whether tok is still the active token for scope
func (t *Tracker) Current(scope string, tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tok != "" && t.active[scope] == tok
}

// Apply runs fn only when tok is current; the check and fn run under the tracker lock
func (t *Tracker) Apply(scope string, tok Token, fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tok == "" || t.active[scope] != tok {
		return false
	}
	fn()
	return true
}

// End clears scope when tok is still current
func (t *Tracker) End(scope string, tok Token) {
	t.mu.Lock()
	if t.active[scope] == tok {
		delete(t.active, scope)
	}
	t.mu.Unlock()
}
