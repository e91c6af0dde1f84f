// file: internal/middleware/logger.go
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LoggingConfig holds configuration for request logging middleware
type LoggingConfig struct {
	SlowRequestThreshold time.Duration `json:"slow_request_threshold"`
	VerySlowThreshold    time.Duration `json:"very_slow_threshold"`
}

// DefaultLoggingConfig returns production-ready logging configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SlowRequestThreshold: 1 * time.Second,
		VerySlowThreshold:    5 * time.Second,
	}
}

// statusWriter captures the response status code and bytes written
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(data)
	w.bytes += int64(n)
	return n, err
}

// RequestLogging logs each completed request with status, duration, and size.
// It relies on RequestID running earlier in the chain for the request-scoped
// logger and start time.
func RequestLogging(config *LoggingConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := GetRequestStart(r.Context())
			requestLogger := GetRequestLogger(r.Context())

			writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(writer, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.Int("status", writer.status),
				zap.Duration("duration", duration),
				zap.Int64("response_bytes", writer.bytes),
				zap.String("query", r.URL.RawQuery),
			}

			switch {
			case writer.status >= 500:
				requestLogger.Error("Request completed", fields...)
			case writer.status >= 400:
				requestLogger.Warn("Request completed", fields...)
			default:
				requestLogger.Info("Request completed", fields...)
			}

			if duration >= config.VerySlowThreshold {
				requestLogger.Error("Very slow request", zap.Duration("duration", duration))
			} else if duration >= config.SlowRequestThreshold {
				requestLogger.Warn("Slow request", zap.Duration("duration", duration))
			}
		})
	}
}
