package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// quietPaths are probed by Docker and Prometheus on an interval; their
// request lines log at debug so scraping does not drown the real
// traffic at the default level.
var quietPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/metrics": true,
}

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// RequestLogging emits one line per request through the request
// context's logger, so lines carry the correlation ID that
// CorrelationID installed ahead of this middleware. The fallback
// logger covers requests that never passed through it.
func RequestLogging(fallback zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			logger := zerolog.Ctx(r.Context())
			if logger.GetLevel() == zerolog.Disabled {
				logger = &fallback
			}

			event := logger.Info()
			if quietPaths[r.URL.Path] {
				event = logger.Debug()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Int("bytes", rw.bytes).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
