package reactor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the runtime's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the flush duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactor",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the runtime's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	renders         *prometheus.CounterVec
	commits         prometheus.Counter
	passes          prometheus.Histogram
	flushDuration   prometheus.Histogram
	effectRuns      prometheus.Counter
	effectCleanups  prometheus.Counter
	effectErrors    *prometheus.CounterVec
	mounted         prometheus.Gauge
	staleSetters    prometheus.Counter
	dispatchDropped prometheus.Counter
	halts           prometheus.Counter
}

// NewMetrics creates and registers the runtime collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Component renders by component name",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		commits: counter("commits_total", "Trees handed to the host"),

		passes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes",
			Help:        "Render/commit/effect passes per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		effectRuns:     counter("effect_runs_total", "Effect bodies run"),
		effectCleanups: counter("effect_cleanups_total", "Effect cleanups run"),

		effectErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_errors_total",
			Help:        "Effect failures by phase",
			ConstLabels: config.ConstLabels,
		}, []string{"phase"}),

		mounted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_instances",
			Help:        "Component instances currently mounted",
			ConstLabels: config.ConstLabels,
		}),

		staleSetters:    counter("stale_setter_calls_total", "State updates dropped because the instance was gone"),
		dispatchDropped: counter("dispatch_dropped_total", "Dispatched functions dropped because the queue was full"),
		halts:           counter("halts_total", "Roots halted by a fatal error"),
	}
}

func (m *Metrics) observeRender(component string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(component).Inc()
}

func (m *Metrics) observeCommit() {
	if m == nil {
		return
	}
	m.commits.Inc()
}

func (m *Metrics) observeFlush(passes int, seconds float64) {
	if m == nil {
		return
	}
	m.passes.Observe(float64(passes))
	m.flushDuration.Observe(seconds)
}

func (m *Metrics) observeEffectRun() {
	if m == nil {
		return
	}
	m.effectRuns.Inc()
}

func (m *Metrics) observeCleanup() {
	if m == nil {
		return
	}
	m.effectCleanups.Inc()
}

func (m *Metrics) observeEffectError(phase EffectPhase) {
	if m == nil {
		return
	}
	m.effectErrors.WithLabelValues(string(phase)).Inc()
}

func (m *Metrics) observeMount() {
	if m == nil {
		return
	}
	m.mounted.Inc()
}

func (m *Metrics) observeUnmount() {
	if m == nil {
		return
	}
	m.mounted.Dec()
}

func (m *Metrics) observeStaleSetter() {
	if m == nil {
		return
	}
	m.staleSetters.Inc()
}

func (m *Metrics) observeDispatchDropped() {
	if m == nil {
		return
	}
	m.dispatchDropped.Inc()
}

func (m *Metrics) observeHalt() {
	if m == nil {
		return
	}
	m.halts.Inc()
}
