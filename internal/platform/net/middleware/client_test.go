package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lectern/internal/platform/net"
	"lectern/internal/platform/net/middleware"
)

func TestClientID(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		header string
		remote string
		want   string
	}{
		{"header wins", " app-1 ", "10.0.0.1:5000", "app-1"},
		{"remote fallback", "", "10.0.0.2:6000", "10.0.0.2:6000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = net.ClientID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.header != "" {
				req.Header.Set(middleware.ClientHeader, tc.header)
			}
			middleware.ClientID()(next).ServeHTTP(httptest.NewRecorder(), req)
			if seen != tc.want {
				t.Fatalf("client id: got %q want %q", seen, tc.want)
			}
		})
	}
}
