package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// Pipeline metrics
	RequestsTotal    *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	StageDuration    *prometheus.HistogramVec
	RowsIn           prometheus.Counter
	RowsDropped      prometheus.Counter
	AggregateRows    prometheus.Counter
	PipelineErrors   *prometheus.CounterVec

	// Transport metrics
	PayloadBytes      *prometheus.HistogramVec
	ActiveConnections prometheus.Gauge
	ExchangesTotal    *prometheus.CounterVec
}

// NewCollector creates a new metrics collector
func NewCollector(namespace string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of pipeline runs by source and outcome",
			},
			[]string{"source", "outcome"},
		),

		PipelineDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_duration_seconds",
				Help:      "End-to-end pipeline duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
		),

		StageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage duration in seconds by stage",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"stage"},
		),

		RowsIn: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_loaded_total",
				Help:      "Total number of raw rows loaded from payloads",
			},
		),

		RowsDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_dropped_total",
				Help:      "Total number of rows dropped during normalization",
			},
		),

		AggregateRows: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "aggregate_rows_total",
				Help:      "Total number of aggregate rows produced",
			},
		),

		PipelineErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_errors_total",
				Help:      "Total number of pipeline errors by kind",
			},
			[]string{"kind"},
		),

		PayloadBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "payload_bytes",
				Help:      "Payload sizes in bytes by direction",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 10),
			},
			[]string{"direction"},
		),

		ActiveConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_connections",
				Help:      "Number of active socket connections",
			},
		),

		ExchangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchanges_total",
				Help:      "Total number of completed socket exchanges by phase",
			},
			[]string{"phase"},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(observer prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: observer,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordRequest increments the pipeline run counter
func (c *Collector) RecordRequest(source, outcome string) {
	c.RequestsTotal.WithLabelValues(source, outcome).Inc()
}

// RecordPipelineError increments the pipeline error counter
func (c *Collector) RecordPipelineError(kind string) {
	c.PipelineErrors.WithLabelValues(kind).Inc()
}

// ObserveStage records the duration of a single pipeline stage
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	c.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObservePayload records a payload size for the given direction
func (c *Collector) ObservePayload(direction string, bytes int) {
	c.PayloadBytes.WithLabelValues(direction).Observe(float64(bytes))
}
