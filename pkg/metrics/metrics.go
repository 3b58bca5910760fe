// Package metrics provides Prometheus instrumentation for proton's column
// layer. It tracks the two places where work scales with data size:
// materialization of condensed columns and parallel scans.
//
// # Overview
//
// The metrics package provides:
//   - A Collector that owns its own prometheus.Registry
//   - Materialization counters labelled by column family
//   - Scan batch counters and a scan latency histogram
//
// # Basic Usage
//
//	collector := metrics.NewCollector("proton")
//	block := columnar.NewBlock(columnar.WithCollector(collector))
//
//	// Serve the registry
//	http.Handle("/metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))
//
// A nil *Collector is valid and records nothing, so instrumented code does
// not need to check whether metrics are enabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records column layer metrics into a private registry.
type Collector struct {
	registry         *prometheus.Registry
	materializations *prometheus.CounterVec
	materializedRows *prometheus.CounterVec
	scanBatches      *prometheus.CounterVec
	scanDuration     prometheus.Histogram
}

// NewCollector creates a collector whose metric names are prefixed with
// namespace. An empty namespace defaults to "proton".
//
// Example:
//
//	collector := metrics.NewCollector("proton")
//	collector.ObserveMaterialization("Const", 1024)
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "proton"
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		materializations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "column_materializations_total",
				Help:      "Total number of columns converted to full columns",
			},
			[]string{"family"},
		),
		materializedRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "column_materialized_rows_total",
				Help:      "Total number of rows produced by column materialization",
			},
			[]string{"family"},
		),
		scanBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scan_batches_total",
				Help:      "Total number of row ranges processed by parallel scans",
			},
			[]string{"family"},
		),
		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_duration_seconds",
				Help:      "Wall time of complete parallel scans",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
		),
	}
	c.registry.MustRegister(c.materializations, c.materializedRows, c.scanBatches, c.scanDuration)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveMaterialization records one ToFullColumn call on a column of the
// given family that produced rows rows.
func (c *Collector) ObserveMaterialization(family string, rows int) {
	if c == nil {
		return
	}
	c.materializations.WithLabelValues(family).Inc()
	c.materializedRows.WithLabelValues(family).Add(float64(rows))
}

// ObserveScanBatch records one processed scan range.
func (c *Collector) ObserveScanBatch(family string) {
	if c == nil {
		return
	}
	c.scanBatches.WithLabelValues(family).Inc()
}

// ObserveScan records the duration of a complete scan.
func (c *Collector) ObserveScan(d time.Duration) {
	if c == nil {
		return
	}
	c.scanDuration.Observe(d.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs.
//
// Example:
//
//	timer := metrics.NewTimer("materialize")
//	full, err := col.ToFullColumn()
//	logger.Debug("materialized", zap.String("timer", timer.Name()), zap.Duration("duration", timer.Stop()))
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name given to NewTimer.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. The timer can be
// stopped multiple times.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
