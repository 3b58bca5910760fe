package config

import (
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/formats"
	"github.com/protondb/proton/pkg/json"
	"github.com/protondb/proton/pkg/logger"
	"github.com/protondb/proton/pkg/metrics"
	"github.com/protondb/proton/pkg/tracing"
)

// Config is the configuration of the proton command and of the column
// layer components it builds.
type Config struct {
	// Log configures the structured logger
	Log logger.Config `yaml:"log" mapstructure:"log"`

	// Scan controls parallel scans over columns
	Scan ScanConfig `yaml:"scan" mapstructure:"scan"`

	// Metrics controls Prometheus instrumentation
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`

	// Export controls block export to files
	Export ExportConfig `yaml:"export" mapstructure:"export"`

	// LogStore controls the in-memory replicated log store
	LogStore LogStoreConfig `yaml:"log_store" mapstructure:"log_store"`

	// Tracing controls OpenTelemetry spans
	Tracing tracing.Config `yaml:"tracing" mapstructure:"tracing"`
}

// ScanConfig contains settings for parallel scans.
type ScanConfig struct {
	// Workers bounds concurrent scan calls. Zero means one per CPU.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// BatchSize is the maximum number of rows handed to one call
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
}

// ExportConfig contains file export settings.
type ExportConfig struct {
	// Format is "parquet", "arrow", "avro" or "json"
	Format string `yaml:"format" mapstructure:"format"`
	// Compression is the codec for columnar formats
	Compression string `yaml:"compression" mapstructure:"compression"`
	// RowGroupSize bounds the rows per Parquet row group
	RowGroupSize int64 `yaml:"row_group_size" mapstructure:"row_group_size"`
	// JSONLayout is "array" or "lines"
	JSONLayout string `yaml:"json_layout" mapstructure:"json_layout"`
}

// LogStoreConfig contains settings for the log store.
type LogStoreConfig struct {
	// Snapshot is the file the store is saved to and restored from.
	// Empty disables persistence.
	Snapshot string `yaml:"snapshot" mapstructure:"snapshot"`
}

// Default returns a configuration with the defaults used when no file or
// environment override is present.
func Default() *Config {
	return &Config{
		Log: logger.DefaultConfig(),
		Scan: ScanConfig{
			Workers:   0,
			BatchSize: columnar.DefaultScanBatchSize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "proton",
		},
		Export: ExportConfig{
			Format:       string(formats.Parquet),
			Compression:  "snappy",
			RowGroupSize: 64 * 1024,
			JSONLayout:   string(json.LayoutLines),
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate validates the configuration for correctness.
// It checks required fields and ensures values are within acceptable ranges.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "log.level")
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "log.encoding must be json or console, got %q", c.Log.Encoding)
	}
	if c.Scan.Workers < 0 {
		return errors.New(errors.ErrorTypeConfig, "scan.workers cannot be negative")
	}
	if c.Scan.BatchSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "scan.batch_size must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.New(errors.ErrorTypeConfig, "metrics.namespace is required when metrics are enabled")
	}
	switch c.Export.Format {
	case string(formats.Parquet), string(formats.Arrow), string(formats.Avro), "json":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "export.format must be parquet, arrow, avro or json, got %q", c.Export.Format)
	}
	if c.Export.RowGroupSize < 0 {
		return errors.New(errors.ErrorTypeConfig, "export.row_group_size cannot be negative")
	}
	if _, err := json.ParseLayout(c.Export.JSONLayout); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "export.json_layout")
	}
	return c.Tracing.Validate()
}

// GetWorkers returns the number of scan workers, ensuring it's at least 1
func (s ScanConfig) GetWorkers() int {
	if s.Workers <= 0 {
		return runtime.NumCPU()
	}
	return s.Workers
}

// ScanOptions returns scan options for s that log to log and record into
// collector.
func (s ScanConfig) ScanOptions(log *zap.Logger, collector *metrics.Collector) columnar.ScanOptions {
	return columnar.ScanOptions{
		Workers:   s.GetWorkers(),
		BatchSize: s.BatchSize,
		Logger:    log,
		Collector: collector,
	}
}

// NewCollector returns a collector, or nil when metrics are disabled.
func (m MetricsConfig) NewCollector() *metrics.Collector {
	if !m.Enabled {
		return nil
	}
	return metrics.NewCollector(m.Namespace)
}

// WriterConfig returns the columnar writer settings. It must only be called
// for the columnar formats.
func (e ExportConfig) WriterConfig(log *zap.Logger) *formats.WriterConfig {
	return &formats.WriterConfig{
		Format:       formats.Format(e.Format),
		Compression:  e.Compression,
		RowGroupSize: e.RowGroupSize,
		Logger:       log,
	}
}
