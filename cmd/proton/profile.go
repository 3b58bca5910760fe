package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/errors"
)

// startProfiling starts a CPU profile when cpuFile is set and returns a
// function that stops it and writes a heap profile to memFile, if set.
func startProfiling(cpuFile, memFile string, log *zap.Logger) (func() error, error) {
	var cpu *os.File
	if cpuFile != "" {
		f, err := os.Create(cpuFile) //nolint:gosec // G304: path is a command line flag
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to start CPU profile")
		}
		cpu = f
		log.Debug("cpu profiling started", zap.String("path", cpuFile))
	}

	return func() error {
		if cpu != nil {
			pprof.StopCPUProfile()
			if err := cpu.Close(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeInternal, "failed to close CPU profile")
			}
			log.Info("cpu profile written", zap.String("path", cpuFile))
		}
		if memFile == "" {
			return nil
		}

		f, err := os.Create(memFile) //nolint:gosec // G304: path is a command line flag
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create memory profile")
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to write memory profile")
		}
		log.Info("memory profile written", zap.String("path", memFile))
		return nil
	}, nil
}
