package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/giornetta/parsebench"
	"github.com/giornetta/parsebench/benchmark"
	"github.com/giornetta/parsebench/internal/cli"
	"github.com/giornetta/parsebench/internal/metrics"
	"github.com/giornetta/parsebench/internal/telemetry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/giornetta/parsebench/grammars/calc"
	_ "github.com/giornetta/parsebench/grammars/json"
)

var rootCmd = &cobra.Command{
	Use:   "parsebench <grammar> <startRule> [options] <file-or-dir>...",
	Short: "Measure parsing throughput with SLL prediction and LL fallback",
	Long: `parsebench parses a set of documents repeatedly and reports throughput, latency and heap usage.

Every document is first parsed with SLL prediction, bailing out on the first conflict or error,
and parsed again with full LL prediction and error recovery only when that fails.`,

	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args, cmd.OutOrStdout())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	inv, warnings, parseErr := cli.Parse(args, benchmark.DefaultConfig())

	if inv.Help {
		cli.Usage(stdout)
		return nil
	}

	cfg := inv.Config

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("could not create logger: %w", err)
	}
	defer logger.Sync()

	for _, w := range warnings {
		logger.Warn("Skipped argument", zap.Error(w))
	}

	if parseErr != nil {
		cli.Usage(stdout)
		return parseErr
	}

	lang, err := parsebench.Lookup(cfg.Grammar)
	if err != nil {
		return err
	}

	files, err := benchmark.FindFiles(cfg.Inputs, cfg.FilePattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("No input files matched", zap.String("pattern", cfg.FilePattern), zap.Strings("inputs", cfg.Inputs))
	}

	docs, err := benchmark.LoadDocuments(files)
	if err != nil {
		return err
	}

	profiler, err := benchmark.NewMemoryProfiler(cfg.Memory, cfg.HeapDumpDir)
	if err != nil {
		return err
	}

	runID := uuid.New()

	opts := []benchmark.RunnerOpt{
		benchmark.WithLogging(logger),
		benchmark.WithOutput(stdout),
		benchmark.WithMemoryProfiler(profiler),
		benchmark.WithRunID(runID),
	}

	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder(lang.Name)
		opts = append(opts, benchmark.WithObserver(recorder))
	}

	if cfg.TraceFile != "" {
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("could not create trace file: %w", err)
		}
		defer f.Close()

		tp, shutdown, err := telemetry.Setup(f, runID.String())
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("Could not flush traces", zap.Error(err))
			}
		}()

		opts = append(opts, benchmark.WithTracerProvider(tp))
	}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create cpu profile: %w", err)
		}
		defer f.Close()

		opts = append(opts, benchmark.WithCPUProfiling(f))
	}

	r := benchmark.NewRunner(benchmark.NewEngine(lang, cfg.DisableCache), cfg, opts...)

	res, err := r.Run(ctx, docs)
	if err != nil {
		return fmt.Errorf("could not run benchmark: %w", err)
	}

	if recorder != nil {
		if err := recorder.WriteFile(cfg.MetricsFile); err != nil {
			return err
		}
	}

	if cfg.JSONFile != "" {
		if err := benchmark.WriteJSON(cfg.JSONFile, res); err != nil {
			return err
		}
	}

	return nil
}
