package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request correlation ID
const RequestIDHeader = "X-Request-ID"

const requestIDKey contextKey = "request_id"

// maxLoggedBody caps request and response bodies in DEBUG logs
const maxLoggedBody = 4096

// responseWriter wraps http.ResponseWriter to capture status code and response body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	body       *bytes.Buffer
}

func newResponseWriter(w http.ResponseWriter, captureBody bool) *responseWriter {
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	if captureBody {
		rw.body = &bytes.Buffer{}
	}
	return rw
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	if rw.body != nil && rw.body.Len() < maxLoggedBody {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// GetRequestID returns the request ID stored by LoggingMiddleware
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LoggingMiddleware assigns a request ID and logs each request.
// INFO logs one line per request, DEBUG adds query parameters and bodies,
// 4xx responses log at WARN and 5xx at ERROR.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

		debug := slog.Default().Enabled(r.Context(), slog.LevelDebug)

		attrs := []any{
			"request_id", requestID,
			"remote_ip", getIP(r),
			"user_agent", r.UserAgent(),
			"method", r.Method,
			"path", r.URL.Path,
		}

		if debug {
			debugAttrs := append([]any{}, attrs...)
			if len(r.URL.Query()) > 0 {
				debugAttrs = append(debugAttrs, "query_params", map[string][]string(r.URL.Query()))
			}
			if r.Body != nil {
				requestBody := peekBody(r)
				if len(requestBody) > 0 {
					debugAttrs = append(debugAttrs, "request_body", truncate(requestBody))
				}
			}
			slog.Debug("Incoming request", debugAttrs...)
		}

		wrapped := newResponseWriter(w, debug)
		next.ServeHTTP(wrapped, r)

		logLevel := slog.LevelInfo
		logMessage := "Request completed"
		switch {
		case wrapped.statusCode >= 500:
			logLevel = slog.LevelError
			logMessage = "Request failed with error"
		case wrapped.statusCode >= 400:
			logLevel = slog.LevelWarn
			logMessage = "Request failed"
		}

		attrs = append(attrs,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if debug && wrapped.body.Len() > 0 {
			attrs = append(attrs, "response_body", truncate(wrapped.body.Bytes()))
		}

		slog.Log(r.Context(), logLevel, logMessage, attrs...)
	})
}

type peekedBody struct {
	io.Reader
	io.Closer
}

// peekBody reads at most maxLoggedBody+1 bytes of the request body and
// puts them back in front of the unread rest.
func peekBody(r *http.Request) []byte {
	prefix, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = peekedBody{Reader: io.MultiReader(bytes.NewReader(prefix), r.Body), Closer: r.Body}
	return prefix
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}
