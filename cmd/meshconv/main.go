// meshconv converts meshes and scenes between formats through a chain of
// converter plugins.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/internal/config"
	"github.com/Faultbox/meshconv/internal/logger"
	"github.com/Faultbox/meshconv/internal/pipeline"
	"github.com/Faultbox/meshconv/internal/plugins"
	"github.com/Faultbox/meshconv/internal/source"
	"github.com/Faultbox/meshconv/pkg/meshtools"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitBadOptions
	exitSourceUnavailable
	exitMeshImport
	exitSaveFailed
	exitCapabilityMismatch
	exitConversionFailed
)

func main() {
	os.Exit(run())
}

func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return exitBadOptions
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.FileConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return exitBadOptions
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("cannot save config", zap.Error(err))
			return exitFailure
		}
		logger.Info("Config saved", zap.String("path", path))
	}

	args := config.Args()
	if len(args) == 0 && config.SaveRequested() {
		return exitOK
	}
	if len(args) == 0 || len(args) > 2 || (len(args) == 1 && !config.Info()) {
		fmt.Fprintln(os.Stderr, "expected an input and an output file")
		fmt.Fprint(os.Stderr, config.Usage)
		return exitBadOptions
	}
	input := args[0]
	if len(args) == 2 && config.Info() {
		logger.Warn("Ignoring output file for --info")
	}

	opts, err := cfg.PipelineOptions()
	if err != nil {
		logger.Error("invalid options", zap.Error(err))
		return exitBadOptions
	}

	src, err := source.Open(cfg.Data.GRFPaths, logger.Log)
	if err != nil {
		logger.Error("cannot open archives", zap.Error(err))
		return exitSourceUnavailable
	}
	defer src.Close()

	p := pipeline.New(plugins.Importers(logger.Log), plugins.Converters(logger.Log), src, logger.Log, opts)

	if config.Info() {
		err = info(os.Stdout, p, input, config.Bounds())
	} else {
		err = p.Run(input, args[1])
	}
	if err != nil {
		logger.Error("conversion failed", zap.String("input", input), zap.Error(err))
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps a pipeline error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pipeline.ErrCapabilityMismatch):
		return exitCapabilityMismatch
	case errors.Is(err, pipeline.ErrConversionToFileFailed):
		return exitSaveFailed
	case errors.Is(err, pipeline.ErrConversionFailed):
		return exitConversionFailed
	case errors.Is(err, pipeline.ErrSourceUnavailable):
		return exitSourceUnavailable
	case errors.Is(err, pipeline.ErrMeshImport),
		errors.Is(err, meshtools.ErrIncompatiblePrimitive):
		return exitMeshImport
	case errors.Is(err, pipeline.ErrBackendUnavailable),
		errors.Is(err, trade.ErrInvalidNumberSequence),
		errors.Is(err, meshtools.ErrAttributeIndexOutOfRange),
		errors.Is(err, meshtools.ErrNegativeEpsilon):
		return exitBadOptions
	default:
		return exitFailure
	}
}
