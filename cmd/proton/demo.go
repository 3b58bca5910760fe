package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/protondb/proton/internal/logstore"
	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/logger"
)

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the log store and the Vector and String columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), a, cmd.OutOrStdout())
		},
	}
}

func runDemo(ctx context.Context, a *app, out io.Writer) error {
	ctx, queryID := logger.WithQueryID(ctx)
	log := logger.WithContext(ctx, a.log)
	log.Info("hello from proton!")

	store := logstore.New(log)
	if path := a.cfg.LogStore.Snapshot; path != "" {
		if err := store.LoadFile(path); err != nil {
			return err
		}
	}

	store.Append(1, logstore.Entry{Term: 1, Data: "Log entry data"})
	log.Info("log store", zap.Int("size", store.Size()))
	if e, ok := store.Get(1); ok {
		log.Info("log entry", zap.Int32("term", e.Term), zap.String("data", e.Data))
	}
	store.Remove(1)
	log.Info("log store after removal", zap.Int("size", store.Size()))

	if path := a.cfg.LogStore.Snapshot; path != "" {
		if err := store.SaveFile(path); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "query %s\n", queryID)

	if err := describe(log, out, columnar.NewVector([]int64{1, 2, 3, 4})); err != nil {
		return err
	}

	str := columnar.NewString()
	str.Insert("hello")
	str.Insert("world")
	return describe(log, out, str)
}

// describe logs and prints the family, size and second element of c.
func describe(log *zap.Logger, out io.Writer, c columnar.Column) error {
	ref, err := c.DataAt(1)
	if err != nil {
		return err
	}

	data := fmt.Sprint(ref.Bytes())
	if columnar.IsFamily(c, columnar.FamilyString) {
		data = ref.String()
	}
	log.Info("column",
		zap.String("family", c.FamilyName()),
		zap.Int("size", c.Size()),
		zap.String("data_at_1", data))
	fmt.Fprintf(out, "%s size=%d data_at_1=%s\n", c.FamilyName(), c.Size(), data)
	return nil
}
