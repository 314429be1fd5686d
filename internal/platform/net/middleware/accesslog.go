// Package middleware holds the chi adapters and in house middlewares
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"lectern/internal/platform/logger"
	pnet "lectern/internal/platform/net"
)

// AccessLogOptions tunes the access log
type AccessLogOptions struct {
	// Slow raises requests at or above this duration to warn; 0 turns it off
	Slow time.Duration
}

// AccessLog scopes the request logger to request id and lang, then writes one line per request
// mount it after RequestID and ClientID
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()), r.URL.Query().Get("lang"))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			began := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			took := time.Since(began)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			l := logger.C(ctx)
			line := l.Info()
			if status >= http.StatusInternalServerError {
				line = l.Error()
			} else if opt.Slow > 0 && took >= opt.Slow {
				line = l.Warn()
			}
			line.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", took).
				Str("client_id", pnet.ClientID(ctx)).
				Msg("request")
		})
	}
}
