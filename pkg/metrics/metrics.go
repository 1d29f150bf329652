// Package metrics provides Prometheus metrics for the report pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the pipeline metrics, registered on their own registry.
type Collector struct {
	registry *prometheus.Registry

	SubmissionsTotal   *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	MissingFields      prometheus.Histogram
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	StorageSaves       *prometheus.CounterVec
	PipelineDuration   prometheus.Histogram
}

// Config configures the collector.
type Config struct {
	// Namespace prefixes all metric names. Empty means "aiflaw".
	Namespace string

	// Registry to register on (nil = new registry with Go collectors).
	Registry *prometheus.Registry
}

// New creates a Collector with all pipeline metrics registered.
func New(cfg *Config) *Collector {
	if cfg == nil {
		cfg = &Config{}
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "aiflaw"
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	c := &Collector{
		registry: registry,
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Report submissions processed, by outcome.",
		}, []string{"outcome"}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Submissions rejected for missing required fields.",
		}),
		MissingFields: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "missing_fields",
			Help:      "Number of missing required fields per failed validation.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
		ConversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "External-format conversions, by converter and status.",
		}, []string{"converter", "status"}),
		ConversionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent in each external-format converter.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"converter"}),
		StorageSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_saves_total",
			Help:      "Storage save attempts, by provider and status.",
		}, []string{"provider", "status"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end submission processing time.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		c.SubmissionsTotal,
		c.ValidationFailures,
		c.MissingFields,
		c.ConversionsTotal,
		c.ConversionDuration,
		c.StorageSaves,
		c.PipelineDuration,
	)
	return c
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveConversion records one converter run.
func (c *Collector) ObserveConversion(converter string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.ConversionsTotal.WithLabelValues(converter, status).Inc()
	c.ConversionDuration.WithLabelValues(converter).Observe(d.Seconds())
}

// ObserveValidationFailure records one rejected submission.
func (c *Collector) ObserveValidationFailure(missingCount int) {
	c.ValidationFailures.Inc()
	c.MissingFields.Observe(float64(missingCount))
}
