package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = iota

// slowRequestThreshold separates routine requests from ones worth flagging.
// The analyze endpoint runs the agent pipeline inline and legitimately waits
// on GitHub and the LLM, so slow requests are logged at Warn rather than
// treated as errors.
const slowRequestThreshold = 30 * time.Second

// requestID returns the identifier assigned to this request by
// loggingMiddleware, or "" when the context carries none. Handlers include it
// in their own log lines so a pipeline run can be correlated with the HTTP
// request that started it.
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// statusWriter wraps http.ResponseWriter to capture the status code and the
// response size for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Write(p []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(p)
	sw.bytes += n
	return n, err
}

// loggingMiddleware assigns each request an opaque id, echoes it in the
// X-Request-ID response header, threads it through the request context, and
// writes one access log line per request.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()

		w.Header().Set("X-Request-ID", id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		level := slog.LevelInfo
		if elapsed > slowRequestThreshold {
			level = slog.LevelWarn
		}

		logger.Log(r.Context(), level, "http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// recoveryMiddleware converts handler panics into the API's standard error
// envelope instead of letting net/http kill the connection.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered",
					"request_id", requestID(r.Context()),
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
