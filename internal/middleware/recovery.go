// file: internal/middleware/recovery.go
package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"go.uber.org/zap"
)

// Recovery recovers from handler panics, logs them with a stack trace, and
// returns a JSON 500 so the connection is never dropped mid-request.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID := GetRequestID(r.Context())
					stack := make([]byte, 8192)
					stack = stack[:runtime.Stack(stack, false)]

					logger.Error("Panic recovered",
						zap.String("request_id", requestID),
						zap.Any("panic_error", err),
						zap.String("panic_type", fmt.Sprintf("%T", err)),
						zap.String("method", r.Method),
						zap.String("url", r.URL.String()),
						zap.String("remote_addr", getClientIP(r)),
						zap.ByteString("stack", stack),
					)

					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.Header().Set("X-Content-Type-Options", "nosniff")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `{"success":false,"error":{"type":"INTERNAL_ERROR","message":"Internal server error"},"request_id":"%s"}`, requestID)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
