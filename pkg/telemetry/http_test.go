package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	handler := HTTPMetrics(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/", "/", "/boom"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	c := GetMetrics()
	if c == nil {
		t.Fatal("GetMetrics returned nil after instrumentation was set up")
	}

	if got := metricCounterValue(t, c.httpRequests.WithLabelValues("GET", "/", "200")); got != 2 {
		t.Errorf("http_requests_total(GET,/,200)=%v, want 2", got)
	}
	if got := metricCounterValue(t, c.httpRequests.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Errorf("http_requests_total(GET,/boom,500)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, c.httpDuration.WithLabelValues("GET", "/")); got != 2 {
		t.Errorf("http_request_duration_seconds(GET,/) sample count=%v, want 2", got)
	}
}

func TestHTTPMetricsDefaultsStatusTo200(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	// A handler that never calls WriteHeader still counts as 200.
	handler := HTTPMetrics(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quiet", nil))

	c := GetMetrics()
	if got := metricCounterValue(t, c.httpRequests.WithLabelValues("GET", "/quiet", "200")); got != 1 {
		t.Errorf("http_requests_total(GET,/quiet,200)=%v, want 1", got)
	}
}

func TestTracingMiddleware_PropagatesSpanAndResponse(t *testing.T) {
	var sawSpan bool
	handler := Tracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if trace.SpanFromContext(r.Context()) != nil {
			sawSpan = true
		}
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/things", nil))

	if !sawSpan {
		t.Error("handler did not observe a span on the request context")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestTracingMiddleware_FilterSkipsTracing(t *testing.T) {
	called := false
	handler := Tracing(
		WithRequestFilter(func(req *http.Request) bool { return req.URL.Path != "/healthz" }),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Error("filtered request did not reach the handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
