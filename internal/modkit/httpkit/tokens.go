package httpkit

import (
	"net/http"
	"time"

	"lectern/internal/core/cacheaside"
	"lectern/internal/core/reqtoken"
	pnet "lectern/internal/platform/net"
	ptime "lectern/internal/platform/time"
)

// TokenHeader echoes the request token on every tracked response
const TokenHeader = "X-Lectern-Token"

// Bundled marks values read from content compiled into the binary
const Bundled cacheaside.Source = "bundled"

// Sourced is the data payload of every content endpoint
// Superseded is set when a newer request from the same client and scope began meanwhile
type Sourced struct {
	Value      any               `json:"value"`
	Source     cacheaside.Source `json:"source,omitempty"`
	WrittenAt  *time.Time        `json:"writtenAt,omitempty"`
	Token      reqtoken.Token    `json:"token"`
	Superseded bool              `json:"superseded,omitempty"`
}

// Ticket is one in-flight request registered with a tracker
type Ticket struct {
	tracker *reqtoken.Tracker
	scope   string
	token   reqtoken.Token
}

// Begin registers a request under scope for the calling client
// A nil tracker still issues a token, it just never reports supersession
func Begin(r *http.Request, t *reqtoken.Tracker, scope string) Ticket {
	scope = scope + "|" + pnet.ClientID(r.Context())
	if t == nil {
		return Ticket{scope: scope, token: reqtoken.New()}
	}
	return Ticket{tracker: t, scope: scope, token: t.Begin(scope)}
}

// Token returns the issued token
func (k Ticket) Token() reqtoken.Token { return k.token }

// Done closes the ticket and reports whether it was still current
func (k Ticket) Done() bool {
	if k.tracker == nil {
		return true
	}
	current := k.tracker.Current(k.scope, k.token)
	k.tracker.End(k.scope, k.token)
	return current
}

// Wrap closes the ticket and builds the payload; a zero writtenAt is omitted
func (k Ticket) Wrap(v any, src cacheaside.Source, writtenAt time.Time) Response {
	resp := OK(Sourced{
		Value:      v,
		Source:     src,
		WrittenAt:  ptime.Ptr(writtenAt),
		Token:      k.token,
		Superseded: !k.Done(),
	})
	resp.Header = http.Header{TokenHeader: []string{string(k.token)}}
	return resp
}

// Fail closes the ticket and returns err unchanged
func (k Ticket) Fail(err error) error {
	k.Done()
	return err
}
