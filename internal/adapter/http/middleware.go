package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
)

const requestIDHeader = "X-Request-ID"

// TerminalIDHeader names the kiosk a request came from.
const TerminalIDHeader = "X-Terminal-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware tags every request with an id (propagated from X-Request-ID when present),
// logs it along with the calling terminal and counts it.
func LoggingMiddleware(log logger.Logger, m *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			details := map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			}
			if terminalID := r.Header.Get(TerminalIDHeader); terminalID != "" {
				details["terminal_id"] = terminalID
			}
			log.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, details)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(logger.WithRequestID(r.Context(), requestID)))

			m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()

			duration := time.Since(start)
			log.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"status":      rec.status,
				"duration_ms": duration.Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic_recovered", "Panic recovered", logger.RequestID(r.Context()), nil, fmt.Errorf("%v", err))
					respondError(w, "Internal server error", http.StatusInternalServerError, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
