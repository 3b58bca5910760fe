package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/config"
	"github.com/protondb/proton/pkg/logger"
	"github.com/protondb/proton/pkg/metrics"
	"github.com/protondb/proton/pkg/tracing"
)

type benchResult struct {
	Rows     int
	Sum      int64
	Batches  float64
	Duration time.Duration
}

func newBenchCommand(a *app) *cobra.Command {
	var (
		rows      int
		workers   int
		batchSize int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure a parallel scan over a generated Int64 column",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scan := a.cfg.Scan
			if cmd.Flags().Changed("workers") {
				scan.Workers = workers
			}
			if cmd.Flags().Changed("batch-size") {
				scan.BatchSize = batchSize
			}

			ctx, _ := logger.WithQueryID(cmd.Context())
			log := logger.WithContext(ctx, a.log)
			collector := a.cfg.Metrics.NewCollector()
			if collector == nil {
				collector = metrics.NewCollector("")
			}

			monitor, err := newResourceMonitor()
			if err != nil {
				log.Warn("resource usage unavailable", zap.Error(err))
			}
			res, err := runBench(ctx, rows, scan, log, collector)
			if err != nil {
				return err
			}
			printBench(cmd.OutOrStdout(), res, scan.GetWorkers())
			if monitor == nil {
				return nil
			}
			usage, err := monitor.usage()
			if err != nil {
				log.Warn("resource usage unavailable", zap.Error(err))
				return nil
			}
			printUsage(cmd.OutOrStdout(), usage)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 1_000_000, "Number of rows to scan")
	cmd.Flags().IntVar(&workers, "workers", 0, "Scan workers; defaults to scan.workers")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per scan batch; defaults to scan.batch_size")
	return cmd
}

// runBench sums the values 1..rows with a parallel scan.
func runBench(ctx context.Context, rows int, scan config.ScanConfig, log *zap.Logger, collector *metrics.Collector) (res benchResult, err error) {
	ctx, span := tracing.Tracer(nil).Start(ctx, "proton.bench", trace.WithAttributes(attribute.Int("rows", rows)))
	defer func() { tracing.End(span, err) }()

	if err := validateRows(rows); err != nil {
		return benchResult{}, err
	}
	col := columnar.NewVectorWithCapacity[int64](rows)
	for n := 1; n <= rows; n++ {
		col.Insert(int64(n))
	}
	data := col.Data()

	var sum atomic.Int64
	timer := metrics.NewTimer("bench")
	err = columnar.Scan(ctx, col, scan.ScanOptions(log, collector), func(_ context.Context, lo, hi int) error {
		var partial int64
		for _, v := range data[lo:hi] {
			partial += v
		}
		sum.Add(partial)
		return nil
	})
	if err != nil {
		return benchResult{}, err
	}
	return benchResult{
		Rows:     rows,
		Sum:      sum.Load(),
		Batches:  counterTotal(collector, "scan_batches_total"),
		Duration: timer.Stop(),
	}, nil
}

// counterTotal adds up every series of the counter whose name ends with
// suffix.
func counterTotal(collector *metrics.Collector, suffix string) float64 {
	families, err := collector.Registry().Gather()
	if err != nil {
		return 0
	}
	var total float64
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), suffix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func printBench(w io.Writer, res benchResult, workers int) {
	rate := float64(res.Rows) / res.Duration.Seconds()
	fmt.Fprintf(w, "rows:     %d\n", res.Rows)
	fmt.Fprintf(w, "sum:      %d\n", res.Sum)
	fmt.Fprintf(w, "workers:  %d\n", workers)
	fmt.Fprintf(w, "batches:  %.0f\n", res.Batches)
	fmt.Fprintf(w, "duration: %s\n", res.Duration)
	fmt.Fprintf(w, "rate:     %.0f rows/s\n", rate)
}

func printUsage(w io.Writer, u resourceUsage) {
	fmt.Fprintf(w, "cpu:      %.0f%%\n", u.CPUPercent)
	fmt.Fprintf(w, "rss:      %.1f MiB\n", float64(u.RSS)/(1<<20))
	fmt.Fprintf(w, "threads:  %d\n", u.Threads)
	fmt.Fprintf(w, "sys mem:  %.0f%% used\n", u.SystemMemUsed)
}
