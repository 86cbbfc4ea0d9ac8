package middleware

import (
	"net/http"
	"time"

	"github.com/ahumphries/campusnet/internal/logging"
)

type RequestLogger struct {
	logger *logging.Logger
}

func NewRequestLogger(logger *logging.Logger) *RequestLogger {
	if logger == nil {
		logger = logging.Default
	}
	return &RequestLogger{logger: logger}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Apply logs one line per request. Server errors log at ERROR, client errors
// at WARN, everything else at INFO.
func (rl *RequestLogger) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		fields := map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_ip":   GetClientIP(r),
		}
		if q := r.URL.RawQuery; q != "" {
			fields["query"] = q
		}

		switch {
		case status >= http.StatusInternalServerError:
			rl.logger.Error("request", fields)
		case status >= http.StatusBadRequest:
			rl.logger.Warn("request", fields)
		default:
			rl.logger.Info("request", fields)
		}
	})
}
