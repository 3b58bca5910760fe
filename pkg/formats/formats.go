// Package formats exports column blocks to Apache Arrow IPC, Apache
// Parquet and Apache Avro files.
//
// A Writer takes its schema from the first block it receives. Later blocks
// must have the same column names and Arrow types.
package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/logger"
)

// Format represents a columnar file format
type Format string

const (
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Arrow is the Apache Arrow IPC file format
	Arrow Format = "arrow"
	// Avro is the Apache Avro object container format
	Avro Format = "avro"
)

// Writer writes blocks in a columnar file format
type Writer interface {
	// WriteBlock writes one block as a record batch or row group
	WriteBlock(b *columnar.Block) error
	// Close flushes buffered data and writes the file footer
	Close() error
	// Format returns the columnar format
	Format() Format
	// RowsWritten returns the number of rows written so far
	RowsWritten() int64
}

// WriterConfig configures columnar writers
type WriterConfig struct {
	Format Format
	// Compression is one of "none", "snappy", "zstd", "gzip", "lz4" or
	// "deflate".
	// Not every format supports every codec.
	Compression string
	// RowGroupSize bounds the rows per Parquet row group.
	RowGroupSize int64
	Allocator    memory.Allocator
	Logger       *zap.Logger
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:       Parquet,
		Compression:  "snappy",
		RowGroupSize: 64 * 1024,
	}
}

// NewWriter creates a new columnar writer
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}
	cfg := *config
	if cfg.Allocator == nil {
		cfg.Allocator = memory.NewGoAllocator()
	}
	cfg.Logger = logger.OrNop(cfg.Logger)

	switch cfg.Format {
	case Parquet:
		return newParquetWriter(w, &cfg)
	case Arrow:
		return newArrowWriter(w, &cfg)
	case Avro:
		return newAvroWriter(w, &cfg)
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unsupported format: %s", cfg.Format)
	}
}

// checkSchema reports whether a block matches the schema of the file being
// written.
func checkSchema(want *arrow.Schema, b *columnar.Block) (*arrow.Schema, error) {
	got, err := Schema(b)
	if err != nil {
		return nil, err
	}
	if want != nil && !want.Equal(got) {
		return nil, errors.Newf(errors.ErrorTypeValidation, "block schema %s does not match file schema %s", got, want)
	}
	return got, nil
}
