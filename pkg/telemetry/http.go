package telemetry

import (
	"net/http"
	"strconv"
	"time"
)

// HTTPMetrics returns middleware that records request counts and
// durations for every request passing through it.
//
// Metrics collected:
//   - routeutil_http_requests_total: Counter by method, path and status
//   - routeutil_http_request_duration_seconds: Histogram by method and path
//
// Example:
//
//	mux := chi.NewRouter()
//	mux.Use(telemetry.HTTPMetrics())
func HTTPMetrics(opts ...MetricsOption) func(http.Handler) http.Handler {
	m := acquireMetrics(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, req)

			path := req.URL.Path
			if path == "" {
				path = "/"
			}
			m.httpDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
			m.httpRequests.WithLabelValues(req.Method, path, strconv.Itoa(rec.status)).Inc()
		})
	}
}

// statusRecorder captures the status code written to a ResponseWriter.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.written {
		r.status = status
		r.written = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.written = true
	return r.ResponseWriter.Write(p)
}
