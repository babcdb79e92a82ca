package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/intelliexam/exam-api/internal/api/shared"
	"github.com/intelliexam/exam-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var seenTraceID string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.True(t, shared.IsValidTraceID(seenTraceID))
	assert.Equal(t, seenTraceID, w.Header().Get(TraceIDHeader))
	assert.Contains(t, buf.String(), seenTraceID, "context logger must carry the trace ID")
}

func TestTraceMiddlewareReusesIncomingID(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	incoming := "0123456789abcdef0123456789abcdef"

	var seenTraceID string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(TraceIDHeader, incoming)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seenTraceID)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(TraceIDHeader, "not-a-trace-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not-a-trace-id", seenTraceID)
	assert.True(t, shared.IsValidTraceID(seenTraceID))
}

func TestTraceMiddlewareAttachesRequestID(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var seenRequestID string
	handler := chimw.RequestID(NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenRequestID = logger.RequestID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/questions", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-7", seenRequestID)
	assert.Contains(t, buf.String(), `"request_id":"req-7"`)
}
