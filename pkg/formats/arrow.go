package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
)

// arrowWriter implements Writer for the Arrow IPC file format
type arrowWriter struct {
	writer      io.Writer
	config      *WriterConfig
	schema      *arrow.Schema
	fileWriter  *ipc.FileWriter
	rowsWritten int64
}

func newArrowWriter(w io.Writer, config *WriterConfig) (*arrowWriter, error) {
	switch config.Compression {
	case "", "none", "zstd", "lz4":
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "arrow: unsupported compression %q", config.Compression)
	}
	return &arrowWriter{writer: w, config: config}, nil
}

func (aw *arrowWriter) WriteBlock(b *columnar.Block) error {
	schema, err := checkSchema(aw.schema, b)
	if err != nil {
		return err
	}
	if aw.fileWriter == nil {
		opts := []ipc.Option{ipc.WithSchema(schema), ipc.WithAllocator(aw.config.Allocator)}
		switch aw.config.Compression {
		case "zstd":
			opts = append(opts, ipc.WithZstd())
		case "lz4":
			opts = append(opts, ipc.WithLZ4())
		}
		fw, err := ipc.NewFileWriter(aw.writer, opts...)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "create arrow writer")
		}
		aw.fileWriter = fw
		aw.schema = schema
	}

	record, err := ToRecord(aw.config.Allocator, b)
	if err != nil {
		return err
	}
	defer record.Release()

	if err := aw.fileWriter.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "write record batch")
	}
	aw.rowsWritten += record.NumRows()
	aw.config.Logger.Debug("record batch written",
		zap.String("format", string(Arrow)),
		zap.Int64("rows", record.NumRows()))
	return nil
}

func (aw *arrowWriter) Close() error {
	if aw.fileWriter == nil {
		return nil
	}
	if err := aw.fileWriter.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "close arrow writer")
	}
	return nil
}

func (aw *arrowWriter) Format() Format     { return Arrow }
func (aw *arrowWriter) RowsWritten() int64 { return aw.rowsWritten }
