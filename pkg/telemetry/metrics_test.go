package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/andreasphil/routeutil/pkg/fragment"
	"github.com/andreasphil/routeutil/pkg/router"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

// readMetric dumps an instrument into its protobuf form so tests can
// assert on the recorded samples.
func readMetric(t *testing.T, v any) *dto.Metric {
	t.Helper()
	m, ok := v.(prometheus.Metric)
	if !ok {
		t.Fatalf("%T is not a prometheus.Metric", v)
	}
	out := &dto.Metric{}
	if err := m.Write(out); err != nil {
		t.Fatalf("reading metric: %v", err)
	}
	return out
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	return readMetric(t, c).GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	return readMetric(t, g).GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	return readMetric(t, o).GetHistogram().GetSampleCount()
}

func TestPrometheusHook_CountsResolutions(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	hook := Prometheus(WithRegistry(reg))

	users := fragment.MustRoute("#/users/", fragment.Param("id"))
	loc := router.NewMemoryLocation("#/home")
	router.New(loc).
		On("#/home", func(router.ResolvedRoute) {}).
		On(users, func(router.ResolvedRoute) {}).
		AfterEach(hook).
		Connect()

	loc.SetFragment("#/users/7")
	loc.SetFragment("#/missing")

	c := GetMetrics()
	if c == nil {
		t.Fatal("GetMetrics returned nil after instrumentation was set up")
	}

	if got := metricCounterValue(t, c.resolutionsTotal.WithLabelValues("#/home", "matched")); got != 1 {
		t.Errorf("resolutions_total(#/home,matched)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.resolutionsTotal.WithLabelValues(users.String(), "matched")); got != 1 {
		t.Errorf("resolutions_total(pattern,matched)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.resolutionsTotal.WithLabelValues("none", "unmatched")); got != 1 {
		t.Errorf("resolutions_total(none,unmatched)=%v, want 1", got)
	}
}

func TestRecordFunctions_WithInitializedMetrics(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	_ = Prometheus(WithRegistry(reg))
	c := GetMetrics()
	if c == nil {
		t.Fatal("GetMetrics returned nil after instrumentation was set up")
	}

	RecordBuild("success", 120*time.Millisecond)
	RecordBuild("error", 80*time.Millisecond)
	AddReloadClient()
	AddReloadClient()
	RemoveReloadClient()

	if got := metricCounterValue(t, c.buildsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("builds_total(success)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.buildsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("builds_total(error)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, c.buildDuration); got != 2 {
		t.Errorf("build_duration_seconds sample count=%v, want 2", got)
	}
	if got := metricGaugeValue(t, c.reloadClients); got != 1 {
		t.Errorf("reload_clients=%v, want 1", got)
	}
}

func TestRecordFunctions_BeforeInitializationAreNoOps(t *testing.T) {
	resetGlobalMetricsForTest()

	if GetMetrics() != nil {
		t.Fatal("expected GetMetrics to return nil before initialization")
	}

	RecordBuild("success", time.Second)
	AddReloadClient()
	RemoveReloadClient()
}

func TestPrometheusInitializesOnce(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	_ = Prometheus(WithRegistry(reg))
	first := GetMetrics()

	// A second call with another registry must reuse the first set
	// instead of re-registering.
	_ = Prometheus(WithRegistry(prometheus.NewRegistry()))
	second := GetMetrics()

	if first.resolutionsTotal != second.resolutionsTotal {
		t.Error("second Prometheus call created a new metric set")
	}
}
