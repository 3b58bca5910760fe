package columnar

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/protondb/proton/pkg/logger"
	"github.com/protondb/proton/pkg/metrics"
	"github.com/protondb/proton/pkg/tracing"
)

// DefaultScanBatchSize is used when ScanOptions.BatchSize is not set.
const DefaultScanBatchSize = 8192

// ScanOptions controls how Scan splits and distributes work.
type ScanOptions struct {
	// Workers bounds the number of concurrent calls to the scan function.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
	// BatchSize is the maximum number of rows per call.
	BatchSize int
	Logger    *zap.Logger
	Collector *metrics.Collector
	// TracerProvider receives the scan span. Nil means the global provider.
	TracerProvider trace.TracerProvider
}

// ScanFunc processes the rows [lo, hi) of a column.
type ScanFunc func(ctx context.Context, lo, hi int) error

// Scan splits the rows of c into disjoint ranges and calls fn for each one
// on up to opts.Workers goroutines. The column is only read, so the calls
// share it without locking.
//
// The first error returned by fn cancels the context passed to the other
// calls and is returned by Scan. Ranges that have not started when the
// context is done are skipped.
func Scan(ctx context.Context, c Column, opts ScanOptions, fn ScanFunc) (err error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultScanBatchSize
	}
	size := c.Size()
	ctx, span := tracing.Tracer(opts.TracerProvider).Start(ctx, "columnar.Scan", trace.WithAttributes(
		attribute.String("family", c.FamilyName()),
		attribute.Int("rows", size),
		attribute.Int("workers", workers),
		attribute.Int("batch_size", batchSize),
	))
	defer func() { tracing.End(span, err) }()

	log := logger.WithContext(ctx, opts.Logger)
	timer := metrics.NewTimer("scan")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	batches := 0
	for lo := 0; lo < size; lo += batchSize {
		if gctx.Err() != nil {
			break
		}
		lo, hi := lo, min(lo+batchSize, size)
		batches++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, lo, hi); err != nil {
				return err
			}
			opts.Collector.ObserveScanBatch(c.FamilyName())
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	elapsed := timer.Stop()
	opts.Collector.ObserveScan(elapsed)
	if err != nil {
		log.Debug("scan failed",
			zap.String("family", c.FamilyName()),
			zap.Int("rows", size),
			zap.Error(err))
		return err
	}
	span.SetAttributes(attribute.Int("batches", batches))
	log.Debug("scan finished",
		zap.String("family", c.FamilyName()),
		zap.Int("rows", size),
		zap.Int("batches", batches),
		zap.Int("workers", workers),
		zap.Duration("duration", elapsed))
	return nil
}
