package middleware

import (
	"net/http"
	"strconv"
	"time"

	"rental-backend/internal/metrics"
)

// responseStatus captures the status code written by the handler chain.
type responseStatus struct {
	http.ResponseWriter
	code int
}

func (rs *responseStatus) WriteHeader(code int) {
	rs.code = code
	rs.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request counts and latency per method and path.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rs := &responseStatus{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rs, r)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, r.URL.Path, strconv.Itoa(rs.code),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, r.URL.Path,
		).Observe(time.Since(started).Seconds())
	})
}
