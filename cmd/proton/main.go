// Command proton is the command line entry point for the proton column
// layer: it runs the demo walkthrough, inspects and exports sample blocks,
// benchmarks parallel scans and manages configuration files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/config"
	"github.com/protondb/proton/pkg/logger"
	"github.com/protondb/proton/pkg/tracing"
)

var version = "0.1.0"

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE; tests may preset log.
type app struct {
	configPath string
	logLevel   string
	cpuProfile string
	memProfile string

	cfg         *config.Config
	log         *zap.Logger
	stopProfile func() error
	stopTracing func(context.Context) error
}

func main() {
	a := &app{}
	root := newRootCommand(a)
	err := root.Execute()
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "proton",
		Short: "proton - in-memory columnar storage layer",
		Long: `proton is the in-memory columnar storage layer of a SQL/streaming query engine.
This command exercises it: it walks through the column variants, inspects and
exports sample blocks, and benchmarks parallel scans.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
	flags.StringVar(&a.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.StringVar(&a.memProfile, "memprofile", "", "Write memory profile to file on exit")

	root.AddCommand(
		newVersionCommand(),
		newDemoCommand(a),
		newInspectCommand(a),
		newExportCommand(a),
		newBenchCommand(a),
		newConfigCommand(a),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "proton v%s\n", version)
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// setup loads the configuration, builds the logger, installs the tracer
// provider and starts profiling. Spans are printed to traceOut.
func (a *app) setup(traceOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	if a.log == nil {
		log, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		a.log = log
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.NewProvider(cfg.Tracing, traceOut, version)
		if err != nil {
			return err
		}
		a.stopTracing = tracing.Install(tp)
		a.log.Debug("tracing enabled",
			zap.String("exporter", cfg.Tracing.Exporter),
			zap.Float64("sampling_rate", cfg.Tracing.SamplingRate))
	}

	stop, err := startProfiling(a.cpuProfile, a.memProfile, a.log)
	if err != nil {
		return err
	}
	a.stopProfile = stop
	return nil
}

func (a *app) teardown() error {
	if a.stopTracing != nil {
		if err := a.stopTracing(context.Background()); err != nil {
			return err
		}
	}
	if a.stopProfile == nil {
		return nil
	}
	return a.stopProfile()
}
