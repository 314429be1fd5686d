package middleware

import (
	"net/http"
	"runtime/debug"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	pnet "lectern/internal/platform/net"
	phttp "lectern/internal/platform/net/http"
)

// RecoverJSON turns a panic into a 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, body := pnet.Fail(perr.PanicErrf("panic recovered"), reqID)
			phttp.JSON(w, status, body)
		}()
		next.ServeHTTP(w, r)
	})
}
