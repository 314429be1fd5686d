package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"lectern/internal/platform/net/middleware"
)

// RequestTimeout bounds a whole API request; upstream calls time out sooner
const RequestTimeout = 30 * time.Second

// SlowRequest is where the access log switches to warn
const SlowRequest = 2 * time.Second

// CommonStack is the middleware every versioned route runs through, outermost first
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.ClientID(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: SlowRequest}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(RequestTimeout),
	}
}
