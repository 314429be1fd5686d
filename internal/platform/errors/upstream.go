package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// UpstreamError is a non-success HTTP response from an upstream content service
// Status and Body are kept verbatim (body is truncated by the caller)
type UpstreamError struct {
	Service string
	Path    string
	Status  int
	Body    string
}

// Error renders "<service> request failed (<status>): <body>"
func (e *UpstreamError) Error() string {
	if e == nil {
		return "<nil>"
	}
	detail := e.Body
	if detail == "" {
		detail = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s request failed (%d): %s", e.Service, e.Status, detail)
}

// HTTPStatus returns the upstream status code
func (e *UpstreamError) HTTPStatus() int { return e.Status }

// Upstream builds an UpstreamError
func Upstream(service, path string, status int, body string) error {
	return &UpstreamError{Service: service, Path: path, Status: status, Body: body}
}

// AsUpstream unwraps and returns (*UpstreamError, true) when present in the chain
func AsUpstream(err error) (*UpstreamError, bool) {
	var u *UpstreamError
	if stderrs.As(err, &u) {
		return u, true
	}
	return nil, false
}

// IsUpstream reports whether err carries an UpstreamError
func IsUpstream(err error) bool {
	_, ok := AsUpstream(err)
	return ok
}

// UpstreamStatus returns the upstream status code or 0
func UpstreamStatus(err error) int {
	if u, ok := AsUpstream(err); ok {
		return u.Status
	}
	return 0
}

// IsRateLimited reports an upstream 429
func IsRateLimited(err error) bool { return UpstreamStatus(err) == http.StatusTooManyRequests }

// IsTransient reports an upstream 5xx or a transport failure
func IsTransient(err error) bool {
	switch UpstreamStatus(err) {
	case 500, 502, 503, 504:
		return true
	}
	return IsCode(err, ErrorCodeUnavailable)
}

// Retryable reports whether a later call may succeed; database contention is coded Unavailable so it counts
func Retryable(err error) bool { return IsTransient(err) || IsRateLimited(err) }
