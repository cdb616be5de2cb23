package binding

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/bindery/pkg/dom"
)

// MetricsConfig configures engine metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bindery").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for batch duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures engine metrics.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithMetricsConstLabels sets constant labels for all metrics.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsBuckets sets the batch duration buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "bindery",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the engine's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	installs      *prometheus.CounterVec
	releases      *prometheus.CounterVec
	failures      *prometheus.CounterVec
	records       *prometheus.CounterVec
	handlerCalls  *prometheus.CounterVec
	batches       prometheus.Counter
	batchDuration prometheus.Histogram
	active        prometheus.Gauge
	models        prometheus.Gauge
}

// NewMetrics creates and registers the engine collectors.
//
// Metrics collected:
//   - bindery_installs_total: bindings installed, by kind
//   - bindery_releases_total: bindings released, by kind
//   - bindery_failures_total: per-element failures, by error code
//   - bindery_mutation_records_total: mutation records processed, by type
//   - bindery_handler_calls_total: event handler invocations, by event
//   - bindery_batches_total: mutation batches processed
//   - bindery_batch_duration_seconds: time spent per batch
//   - bindery_active_bindings: installed bindings
//   - bindery_bound_models: bound models
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		installs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "installs_total",
			Help:        "Total number of bindings installed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		releases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "releases_total",
			Help:        "Total number of bindings released",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of per-element binding failures",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutation_records_total",
			Help:        "Total number of mutation records processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		handlerCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handler_calls_total",
			Help:        "Total number of model handler invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"event"}),

		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of mutation batches processed",
			ConstLabels: config.ConstLabels,
		}),

		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batch_duration_seconds",
			Help:        "Mutation batch processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_bindings",
			Help:        "Number of installed bindings",
			ConstLabels: config.ConstLabels,
		}),

		models: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bound_models",
			Help:        "Number of bound models",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) installed(k Kind) {
	if m == nil {
		return
	}
	m.installs.WithLabelValues(k.String()).Inc()
	m.active.Inc()
}

func (m *Metrics) released(k Kind) {
	if m == nil {
		return
	}
	m.releases.WithLabelValues(k.String()).Inc()
	m.active.Dec()
}

func (m *Metrics) failed(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.failures.WithLabelValues(code).Inc()
}

func (m *Metrics) record(t dom.MutationType) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(t.String()).Inc()
}

func (m *Metrics) handled(event string) {
	if m == nil {
		return
	}
	m.handlerCalls.WithLabelValues(event).Inc()
}

func (m *Metrics) batch(d time.Duration) {
	if m == nil {
		return
	}
	m.batches.Inc()
	m.batchDuration.Observe(d.Seconds())
}

func (m *Metrics) bound() {
	if m == nil {
		return
	}
	m.models.Inc()
}

func (m *Metrics) unbound() {
	if m == nil {
		return
	}
	m.models.Dec()
}
