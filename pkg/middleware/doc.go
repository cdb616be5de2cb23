// Package middleware provides HTTP middleware for the bindery inspector.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request metrics
//
// Both label requests by their chi route pattern once routing finished, so
// /bindings/{model} is one span name and one metric series regardless of
// the model requested.
//
// # OpenTelemetry Middleware
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-inspector"),
//	))
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure the global provider in main():
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// # Prometheus Metrics
//
//	r.Use(middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithRegistry(reg),
//	))
//
// Metrics collected:
//   - bindery_inspect_requests_total
//   - bindery_inspect_request_duration_seconds
//   - bindery_inspect_requests_in_flight
package middleware
