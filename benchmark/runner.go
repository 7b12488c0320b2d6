package benchmark

import (
	"context"
	"fmt"
	"io"
	"runtime/pprof"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/giornetta/parsebench/benchmark"

// Observer is notified after every trial, outside of the timed section.
type Observer interface {
	ObserveTrial(batch int, t TrialResult)
}

// Runner measures an Engine over a document set. All of its work is sequential.
type Runner struct {
	Engine Engine
	Config Config

	options runOptions
}

type runOptions struct {
	logger   *zap.Logger
	reporter *Reporter
	profiler MemoryProfiler
	tracer   trace.Tracer

	observers []Observer

	runID uuid.UUID

	cpuProfileWriter io.Writer
}

type RunnerOpt func(r *Runner)

func WithLogging(logger *zap.Logger) RunnerOpt {
	return func(r *Runner) {
		if logger == nil {
			logger = zap.NewNop()
		}

		r.options.logger = logger
	}
}

// WithOutput sets where the report is printed.
func WithOutput(w io.Writer) RunnerOpt {
	return func(r *Runner) {
		r.options.reporter = NewReporter(w)
	}
}

func WithMemoryProfiler(p MemoryProfiler) RunnerOpt {
	return func(r *Runner) {
		if p == nil {
			p = NopProfiler{}
		}

		r.options.profiler = p
	}
}

func WithObserver(o Observer) RunnerOpt {
	return func(r *Runner) {
		r.options.observers = append(r.options.observers, o)
	}
}

func WithTracerProvider(tp trace.TracerProvider) RunnerOpt {
	return func(r *Runner) {
		r.options.tracer = tp.Tracer(tracerName)
	}
}

func WithCPUProfiling(w io.Writer) RunnerOpt {
	return func(r *Runner) {
		r.options.cpuProfileWriter = w
	}
}

// WithRunID sets the identifier of the run, so it can be shared with the traces. A random one is used otherwise.
func WithRunID(id uuid.UUID) RunnerOpt {
	return func(r *Runner) {
		r.options.runID = id
	}
}

func NewRunner(engine Engine, cfg Config, opts ...RunnerOpt) *Runner {
	r := &Runner{
		Engine: engine,
		Config: cfg,

		options: runOptions{
			logger:           zap.NewNop(),
			reporter:         NewReporter(io.Discard),
			profiler:         RuntimeProfiler{},
			tracer:           otel.Tracer(tracerName),
			cpuProfileWriter: nil,
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunResult is everything a run measured.
type RunResult struct {
	ID        uuid.UUID     `json:"id"`
	Grammar   string        `json:"grammar"`
	StartRule string        `json:"start_rule"`
	Started   time.Time     `json:"started"`
	Batches   []BatchResult `json:"batches"`

	// Overall summarizes the batch means. It is nil when a single batch was run.
	Overall *Statistics `json:"overall,omitempty"`
}

// Run executes Config.Batches batches over docs and prints the report.
func (r *Runner) Run(ctx context.Context, docs []*Document) (*RunResult, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cleanupFunc := r.startProfiling()
	defer cleanupFunc()

	id := r.options.runID
	if id == uuid.Nil {
		id = uuid.New()
	}

	res := &RunResult{
		ID:        id,
		Grammar:   r.Config.Grammar,
		StartRule: r.Config.StartRule,
		Started:   time.Now(),
		Batches:   make([]BatchResult, 0, r.Config.Batches),
	}

	ctx, span := r.options.tracer.Start(ctx, "run")
	defer span.End()

	r.options.logger.Info("Starting run",
		zap.String("id", res.ID.String()),
		zap.String("grammar", r.Config.Grammar),
		zap.String("start_rule", r.Config.StartRule),
		zap.Int("documents", len(docs)),
		zap.Int("batches", r.Config.Batches),
		zap.Int("trials", r.Config.Trials))

	means := make([]time.Duration, 0, r.Config.Batches)
	for b := 0; b < r.Config.Batches; b++ {
		batch, err := r.RunBatch(ctx, docs, b)
		if err != nil {
			return nil, err
		}

		res.Batches = append(res.Batches, batch)
		means = append(means, batch.Stats.Mean)
	}

	if r.Config.Batches > 1 {
		overall := Summarize(means, overallSkip(len(means), r.Config.Skip))
		res.Overall = &overall
		r.options.reporter.Overall(overall)
	}

	return res, nil
}

func (r *Runner) startProfiling() func() {
	if r.options.cpuProfileWriter == nil || r.options.cpuProfileWriter == io.Discard {
		return func() {}
	}

	if err := pprof.StartCPUProfile(r.options.cpuProfileWriter); err != nil {
		r.options.logger.Warn("Could not start CPU profiling", zap.Error(err))
		return func() {}
	}

	return pprof.StopCPUProfile
}

// overallSkip trims the leading batch means only when some remain afterwards; otherwise every batch counts.
func overallSkip(batches, skip int) int {
	if batches > skip {
		return skip
	}

	return 0
}
