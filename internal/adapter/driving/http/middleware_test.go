package httphandler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h := loggingMiddleware(slog.New(slog.DiscardHandler), inner)
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.NotEmpty(t, seen, "handler must see the request id in its context")
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestLoggingMiddleware_UniquePerRequest(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := loggingMiddleware(slog.New(slog.DiscardHandler), inner)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/repos", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/repos", nil))

	assert.NotEqual(t, first.Header().Get("X-Request-ID"), second.Header().Get("X-Request-ID"))
}

func TestLoggingMiddleware_LogsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "repository not found")
	})

	rec := httptest.NewRecorder()
	h := loggingMiddleware(logger, inner)
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/repos/acme/widgets/todos", nil))

	line := buf.String()
	assert.Contains(t, line, "status=404")
	assert.Contains(t, line, "path=/api/v1/repos/acme/widgets/todos")
	assert.Contains(t, line, "request_id="+rec.Header().Get("X-Request-ID"))
	assert.NotContains(t, line, "bytes=0", "error body size must be counted")
}

func TestRecoveryMiddleware_ReturnsErrorEnvelope(t *testing.T) {
	inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	h := recoveryMiddleware(slog.New(slog.DiscardHandler), inner)
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/repos", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRequestID_AbsentFromContext(t *testing.T) {
	assert.Empty(t, requestID(context.Background()))
}
