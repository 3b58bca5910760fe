package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/json"
)

func newInspectCommand(a *app) *cobra.Command {
	var (
		rows        int
		preview     int
		materialize bool
		output      string
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe the columns of a generated sample block",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := sampleBlock(rows, a.log, a.cfg.Metrics.NewCollector())
			if err != nil {
				return err
			}
			if materialize {
				if b, err = b.Materialize(); err != nil {
					return err
				}
			}
			switch output {
			case "table":
				return inspectBlock(cmd.OutOrStdout(), b, preview)
			case "json", "jsonl":
				return describeBlock(cmd.OutOrStdout(), b, output == "json")
			default:
				return errors.Newf(errors.ErrorTypeValidation, "unknown output %q (want table, json or jsonl)", output)
			}
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 10, "Number of rows in the sample block")
	cmd.Flags().IntVar(&preview, "preview", 3, "Number of rows to print")
	cmd.Flags().BoolVar(&materialize, "materialize", false, "Convert every column to a full column first")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or jsonl")
	return cmd
}

type columnInfo struct {
	Column string `json:"column"`
	Name   string `json:"name"`
	Family string `json:"family"`
	Type   string `json:"type"`
	Rows   int    `json:"rows"`
}

// describeBlock writes one columnInfo per column, as an indented array or
// as JSON lines.
func describeBlock(out io.Writer, b *columnar.Block, array bool) error {
	enc := json.NewStreamingEncoder(out, array)
	if array {
		enc.SetIndent("  ")
	}
	for i, name := range b.ColumnNames() {
		c, err := b.ColumnAt(i)
		if err != nil {
			return err
		}
		info := columnInfo{Column: name, Name: c.Name(), Family: c.FamilyName(), Type: c.LogicalType(), Rows: c.Size()}
		if err := enc.Encode(info); err != nil {
			return err
		}
	}
	return enc.Close()
}

func inspectBlock(out io.Writer, b *columnar.Block, preview int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tNAME\tFAMILY\tTYPE\tROWS")
	for i, name := range b.ColumnNames() {
		c, err := b.ColumnAt(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", name, c.Name(), c.FamilyName(), c.LogicalType(), c.Size())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Rows are rendered as JSON values since Array columns have no Field
	// form.
	var buf []byte
	cells := make([]string, b.ColumnCount())
	it := b.Iterator()
	for it.Next() && it.Index() < preview {
		for i := range cells {
			c, err := b.ColumnAt(i)
			if err != nil {
				return err
			}
			if buf, err = json.AppendValue(buf[:0], c, it.Index()); err != nil {
				return err
			}
			cells[i] = string(buf)
		}
		fmt.Fprintf(out, "%d: %s\n", it.Index(), strings.Join(cells, " | "))
	}
	return nil
}
