package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
)

// parquetWriter implements Writer for Parquet format
type parquetWriter struct {
	writer      io.Writer
	config      *WriterConfig
	codec       compress.Compression
	schema      *arrow.Schema
	fileWriter  *pqarrow.FileWriter
	rowsWritten int64
}

func newParquetWriter(w io.Writer, config *WriterConfig) (*parquetWriter, error) {
	codec, err := parquetCompression(config.Compression)
	if err != nil {
		return nil, err
	}
	return &parquetWriter{writer: w, config: config, codec: codec}, nil
}

func (pw *parquetWriter) WriteBlock(b *columnar.Block) error {
	schema, err := checkSchema(pw.schema, b)
	if err != nil {
		return err
	}
	if pw.fileWriter == nil {
		opts := []parquet.WriterProperty{
			parquet.WithCompression(pw.codec),
			parquet.WithAllocator(pw.config.Allocator),
		}
		if pw.config.RowGroupSize > 0 {
			opts = append(opts, parquet.WithMaxRowGroupLength(pw.config.RowGroupSize))
		}
		fw, err := pqarrow.NewFileWriter(schema, pw.writer,
			parquet.NewWriterProperties(opts...),
			pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(pw.config.Allocator)))
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "create parquet writer")
		}
		pw.fileWriter = fw
		pw.schema = schema
	}

	record, err := ToRecord(pw.config.Allocator, b)
	if err != nil {
		return err
	}
	defer record.Release()

	if err := pw.fileWriter.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "write row group")
	}
	pw.rowsWritten += record.NumRows()
	pw.config.Logger.Debug("row group written",
		zap.String("format", string(Parquet)),
		zap.Int64("rows", record.NumRows()))
	return nil
}

func (pw *parquetWriter) Close() error {
	if pw.fileWriter == nil {
		return nil
	}
	if err := pw.fileWriter.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "close parquet writer")
	}
	return nil
}

func (pw *parquetWriter) Format() Format     { return Parquet }
func (pw *parquetWriter) RowsWritten() int64 { return pw.rowsWritten }

func parquetCompression(name string) (compress.Compression, error) {
	switch name {
	case "", "none":
		return compress.Codecs.Uncompressed, nil
	case "snappy":
		return compress.Codecs.Snappy, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	default:
		return compress.Codecs.Uncompressed, errors.Newf(errors.ErrorTypeValidation, "parquet: unsupported compression %q", name)
	}
}
