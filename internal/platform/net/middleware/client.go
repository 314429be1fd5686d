package middleware

import (
	"net/http"
	"strings"

	pnet "lectern/internal/platform/net"
)

// ClientHeader names the request header that identifies a caller across requests
const ClientHeader = "X-Client-ID"

// ClientID stores the caller identity on the request context
// The header wins; otherwise the remote address is used, so run it after RealIP
func ClientID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ClientHeader))
			if id == "" {
				id = r.RemoteAddr
			}
			ctx := pnet.WithRequest(r.Context(), "", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
