// Package httpkit is the handler and routing kit API modules build on
// modules use it instead of importing internal/platform/net/http directly
package httpkit

import (
	"net/http"

	"lectern/internal/core/langs"
	phttp "lectern/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK is a 200 response carrying data
func OK(data any) Response { return phttp.OK(data) }

// Call adapts a handler returning a value or an error to the envelope
// a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Param returns a named path parameter
func Param(r *http.Request, name string) string { return phttp.URLParam(r, name) }

// Lang returns the explicit language or the best interface match for Accept-Language
func Lang(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return langs.Match(r.Header.Get("Accept-Language"))
}
