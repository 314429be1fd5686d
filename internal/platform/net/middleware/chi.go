package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"

	pstrings "lectern/internal/platform/strings"
)

// RequestID assigns or propagates X-Request-ID
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr from X-Forwarded-For or X-Real-IP
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// NoCache sets headers that stop clients caching API responses
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress gzips responses at level
func Compress(level int) func(http.Handler) http.Handler { return chimw.Compress(level) }

// StripSlashes routes /path/ as /path
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Heartbeat answers GET path with 200 before any routing
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
}

// CORS allows cross origin reads of the API, with the client and token headers
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{
			"Accept",
			"Accept-Language",
			ClientHeader,
			"X-Request-ID",
		}),
		ExposedHeaders: pstrings.IfEmpty(o.ExposedHeaders, []string{"X-Request-ID", "X-Lectern-Token"}),
		MaxAge:         o.MaxAge,
	})
}
