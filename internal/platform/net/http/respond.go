package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "lectern/internal/platform/net"
)

// Envelope is the body every endpoint writes
type Envelope = pnet.Wire

// JSON encodes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce
// Body may be an error, which then picks the status and the envelope
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK is a 200 carrying data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// NoContent is a bodiless 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error is a failure response
func Error(err error) Response { return Response{Body: err} }

// Handle turns a Response-returning func into a handler that writes the envelope
func Handle(h func(*stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vs := range resp.Header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}

		rid := pnet.RequestID(r.Context())
		if err, failed := resp.Body.(error); failed && err != nil {
			status, env := pnet.Fail(err, rid)
			JSON(w, status, env)
			return
		}

		switch resp.Status {
		case 0:
			resp.Status = stdhttp.StatusOK
		case stdhttp.StatusNoContent:
			w.WriteHeader(stdhttp.StatusNoContent)
			return
		}
		JSON(w, resp.Status, pnet.Reply(resp.Status, resp.Body, rid))
	}
}
