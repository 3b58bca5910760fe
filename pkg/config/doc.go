// Package config provides configuration management for proton.
//
// A single Config structure covers every configurable component: the
// logger, parallel scans, Prometheus metrics, block export and the log
// store snapshot.
//
// # Sources
//
// Load merges, in increasing order of precedence:
//
//   - the values returned by Default
//   - a YAML file, after ${VAR_NAME} references are replaced from the
//     environment
//   - PROTON_* environment variables, with dots in the key replaced by
//     underscores (PROTON_SCAN_WORKERS overrides scan.workers)
//
// The result is validated before it is returned. Every failure is an
// errors.ErrorTypeConfig error.
//
// # Example
//
//	cfg, err := config.Load("proton.yaml")
//	if err != nil {
//		return err
//	}
//	log, err := logger.New(cfg.Log)
//	if err != nil {
//		return err
//	}
//	err = columnar.Scan(ctx, col, cfg.Scan.ScanOptions(log, cfg.Metrics.NewCollector()), fn)
//
// Save writes a configuration back as YAML, which is how `proton config
// init` produces a starting file.
package config
