package telemetry

import (
	"regexp"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/andreasphil/routeutil/pkg/router"
)

// MetricsConfig describes how metric instruments are named and where
// they register. The zero value is unusable; options are applied on
// top of defaultMetricsConfig.
type MetricsConfig struct {
	// Namespace and Subsystem prefix every metric name. Namespace
	// defaults to "routeutil".
	Namespace string
	Subsystem string

	// ConstLabels are attached to every instrument.
	ConstLabels prometheus.Labels

	// Buckets for the duration histograms, prometheus.DefBuckets
	// unless set.
	Buckets []float64

	// Registry receives the instruments. Defaults to
	// prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption adjusts the instrumentation setup.
type MetricsOption func(*MetricsConfig)

// WithNamespace overrides the metric name prefix.
func WithNamespace(ns string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = ns }
}

// WithSubsystem inserts a subsystem into metric names.
func WithSubsystem(sub string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = sub }
}

// WithConstLabels attaches fixed labels to every instrument.
func WithConstLabels(l prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = l }
}

// WithBuckets overrides the duration histogram buckets.
func WithBuckets(b []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = b }
}

// WithRegistry registers the instruments somewhere other than the
// default registerer. Mostly useful in tests.
func WithRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = r }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routeutil",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the router and its tooling.
type metrics struct {
	resolutionsTotal *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	reloadClients    prometheus.Gauge
	buildsTotal      *prometheus.CounterVec
	buildDuration    prometheus.Histogram
}

// globalMetrics is the singleton metrics instance, created on the
// first call to Prometheus or HTTPMetrics.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func (c MetricsConfig) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   c.Namespace,
		Subsystem:   c.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.ConstLabels,
	}
}

func (c MetricsConfig) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   c.Namespace,
		Subsystem:   c.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.ConstLabels,
	}
}

func (c MetricsConfig) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   c.Namespace,
		Subsystem:   c.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.ConstLabels,
		Buckets:     buckets,
	}
}

func initMetrics(cfg MetricsConfig) *metrics {
	factory := promauto.With(cfg.Registry)

	return &metrics{
		resolutionsTotal: factory.NewCounterVec(
			cfg.counterOpts("resolutions_total", "Total number of fragment resolutions by route and outcome"),
			[]string{"route", "status"}),

		httpRequests: factory.NewCounterVec(
			cfg.counterOpts("http_requests_total", "Total number of dev server requests"),
			[]string{"method", "path", "status"}),

		httpDuration: factory.NewHistogramVec(
			cfg.histogramOpts("http_request_duration_seconds", "Dev server request duration in seconds", cfg.Buckets),
			[]string{"method", "path"}),

		reloadClients: factory.NewGauge(
			cfg.gaugeOpts("reload_clients", "Number of connected live-reload clients")),

		buildsTotal: factory.NewCounterVec(
			cfg.counterOpts("builds_total", "Total number of dev builds by result"),
			[]string{"result"}),

		buildDuration: factory.NewHistogram(
			cfg.histogramOpts("build_duration_seconds", "Dev build duration in seconds",
				[]float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30})),
	}
}

// acquireMetrics initializes the singleton on first use.
func acquireMetrics(opts []MetricsOption) *metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(cfg)
	}
	return globalMetrics
}

// Prometheus returns an after-each hook that counts resolutions.
//
// Metrics collected:
//   - routeutil_resolutions_total: Counter of resolutions by route and status
//
// The route label is the definition's source text ("none" for misses),
// so its cardinality is bounded by the registry.
//
// Example:
//
//	r := router.New(loc)
//	r.AfterEach(telemetry.Prometheus())
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) router.Handler {
	m := acquireMetrics(opts)

	return func(res router.ResolvedRoute) {
		status := "matched"
		if res.Route == nil {
			status = "unmatched"
		}
		m.resolutionsTotal.WithLabelValues(routeLabel(res.Route), status).Inc()
	}
}

// routeLabel renders a definition as a bounded-cardinality label value.
func routeLabel(def router.Definition) string {
	switch d := def.(type) {
	case string:
		return d
	case *regexp.Regexp:
		return d.String()
	default:
		return "none"
	}
}

// ============================================================================
// Recording functions for the dev server
// ============================================================================

// RecordBuild records one dev build and its duration. Result should be
// "success" or "error".
func RecordBuild(result string, duration time.Duration) {
	if globalMetrics != nil {
		globalMetrics.buildsTotal.WithLabelValues(result).Inc()
		globalMetrics.buildDuration.Observe(duration.Seconds())
	}
}

// AddReloadClient records a live-reload client connecting.
func AddReloadClient() {
	if globalMetrics != nil {
		globalMetrics.reloadClients.Inc()
	}
}

// RemoveReloadClient records a live-reload client disconnecting.
func RemoveReloadClient() {
	if globalMetrics != nil {
		globalMetrics.reloadClients.Dec()
	}
}

// ============================================================================
// Metrics collector
// ============================================================================

// Collector exposes the metric instruments for custom registration and
// inspection.
type Collector struct {
	resolutionsTotal *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	reloadClients    prometheus.Gauge
	buildsTotal      *prometheus.CounterVec
	buildDuration    prometheus.Histogram
}

// GetMetrics returns the global metrics collector, or nil when no
// instrumentation has been initialized yet.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		resolutionsTotal: globalMetrics.resolutionsTotal,
		httpRequests:     globalMetrics.httpRequests,
		httpDuration:     globalMetrics.httpDuration,
		reloadClients:    globalMetrics.reloadClients,
		buildsTotal:      globalMetrics.buildsTotal,
		buildDuration:    globalMetrics.buildDuration,
	}
}
