package middleware

import (
	"context"
	"net/http"
	"time"

	"survivor-league/logging"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags each request with an ID and logs method, path, status and duration
func RequestLogger(next http.Handler) http.Handler {
	logger := logging.WithPrefix("HTTP")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		duration := time.Since(start)
		switch {
		case rec.status >= 500:
			logger.Errorf("[%s] %s %s %d %s", requestID, r.Method, r.URL.Path, rec.status, duration)
		case rec.status >= 400:
			logger.Warnf("[%s] %s %s %d %s", requestID, r.Method, r.URL.Path, rec.status, duration)
		default:
			logger.Debugf("[%s] %s %s %d %s", requestID, r.Method, r.URL.Path, rec.status, duration)
		}
	})
}

// RequestID returns the ID assigned by RequestLogger, or "" outside a request
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
