package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/formats"
	"github.com/protondb/proton/pkg/json"
	"github.com/protondb/proton/pkg/logger"
	"github.com/protondb/proton/pkg/tracing"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		format string
		output string
		rows   int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a generated sample block as Parquet, Arrow IPC, Avro or JSON",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			export := a.cfg.Export
			if format != "" {
				export.Format = format
			}

			ctx, _ := logger.WithQueryID(cmd.Context())
			log := logger.WithContext(ctx, a.log)
			_, span := tracing.Tracer(nil).Start(ctx, "proton.export", trace.WithAttributes(
				attribute.String("format", export.Format),
				attribute.Int("rows", rows)))
			defer func() { tracing.End(span, err) }()

			b, err := sampleBlock(rows, log, a.cfg.Metrics.NewCollector())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output) //nolint:gosec // G304: path is a command line flag
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create output file")
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)

			switch export.Format {
			case "json":
				layout, err := json.ParseLayout(export.JSONLayout)
				if err != nil {
					return err
				}
				if err := json.EncodeBlock(bw, b, layout); err != nil {
					return err
				}
			default:
				if err := writeColumnar(bw, b, export.WriterConfig(log)); err != nil {
					return err
				}
			}
			if err := bw.Flush(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeInternal, "failed to flush output")
			}

			log.Info("block exported",
				zap.String("format", export.Format),
				zap.Int("rows", b.RowCount()),
				zap.String("output", output))
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", b.RowCount(), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (parquet, arrow, avro, json); defaults to export.format")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file; defaults to standard output")
	cmd.Flags().IntVar(&rows, "rows", 100, "Number of rows in the sample block")
	return cmd
}

func writeColumnar(w io.Writer, b *columnar.Block, cfg *formats.WriterConfig) error {
	fw, err := formats.NewWriter(w, cfg)
	if err != nil {
		return err
	}
	if err := fw.WriteBlock(b); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}
