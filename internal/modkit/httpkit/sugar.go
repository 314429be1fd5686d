package httpkit

import (
	"net/http"

	"lectern/internal/platform/net/http/bind"
)

// Get mounts a handler that takes no input beyond the request
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// GetQuery mounts a handler under GET whose input is decoded and validated from the query string
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, Query(h))
}

// DeleteQuery mounts a query-bound handler under DELETE
func DeleteQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Delete(path, Query(h))
}

// Query adapts a query-bound handler to the envelope
func Query[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Call(func(r *http.Request) (any, error) {
		in, err := bind.Query[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}
