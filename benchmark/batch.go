package benchmark

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// BatchResult holds every trial of a batch and their statistics.
type BatchResult struct {
	Index  int           `json:"index"`
	Trials []TrialResult `json:"trials"`
	Stats  Statistics    `json:"stats"`
}

// RunBatch runs Config.Trials trials one after another.
func (r *Runner) RunBatch(ctx context.Context, docs []*Document, index int) (BatchResult, error) {
	ctx, span := r.options.tracer.Start(ctx, "batch")
	span.SetAttributes(attribute.Int("batch", index))
	defer span.End()

	res := BatchResult{
		Index:  index,
		Trials: make([]TrialResult, 0, r.Config.Trials),
	}

	r.options.reporter.BatchHeader(index + 1)

	timings := make([]time.Duration, 0, r.Config.Trials)
	for t := 0; t < r.Config.Trials; t++ {
		if r.Config.ResetPerTrial {
			r.Engine.Cache().Reset()
		}

		trial, err := r.RunTrial(ctx, docs, t)
		if err != nil {
			return res, err
		}

		r.options.reporter.Trial(trial)
		for _, o := range r.options.observers {
			o.ObserveTrial(index, trial)
		}

		res.Trials = append(res.Trials, trial)
		timings = append(timings, trial.Elapsed)
	}

	res.Stats = Summarize(timings, r.Config.Skip)

	if r.Config.DocTiming && len(res.Trials) > 0 {
		r.options.reporter.DocumentTimings(res.Trials[len(res.Trials)-1].Documents)
	}

	r.options.reporter.Summary(res.Stats)

	r.options.logger.Info("Batch completed",
		zap.Int("batch", index),
		zap.Duration("mean", res.Stats.Mean),
		zap.Duration("min", res.Stats.Min),
		zap.Duration("stddev", res.Stats.StdDev))

	return res, nil
}
