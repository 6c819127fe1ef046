package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives request measurements
type HTTPRecorder interface {
	IncInFlight()
	DecInFlight()
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
}

// Metrics records in-flight, count and latency for each request
func Metrics(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder.IncInFlight()
			defer recorder.DecInFlight()

			wrapped := newResponseWriter(w, false)
			next.ServeHTTP(wrapped, r)

			recorder.RecordHTTPRequest(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
		})
	}
}
