// Package telemetry provides observability hooks for hash routers and
// the tooling that serves them.
//
// This package includes:
//   - A Prometheus after-each hook counting route resolutions
//   - Prometheus HTTP middleware for the dev server
//   - OpenTelemetry tracing middleware for the dev server
//
// # Resolution Metrics
//
// Prometheus returns a router.Handler meant for the AfterEach slot. It
// counts every resolution by route and outcome:
//
//	r := router.New(loc)
//	r.AfterEach(telemetry.Prometheus())
//
// Configure with options:
//
//	telemetry.Prometheus(
//	    telemetry.WithNamespace("myapp"),
//	    telemetry.WithRegistry(registry),
//	)
//
// # HTTP Middleware
//
// HTTPMetrics and Tracing wrap http.Handlers, recording request counts
// and durations and emitting one span per request. The dev server
// installs both; any chi or net/http stack can reuse them:
//
//	mux.Use(telemetry.HTTPMetrics())
//	mux.Use(telemetry.Tracing(telemetry.WithTracerName("my-app")))
//
// The tracer uses the global OpenTelemetry tracer provider; configure
// it in main() before serving.
package telemetry
