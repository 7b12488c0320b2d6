package benchmark

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TrialResult is one full pass over the document set.
type TrialResult struct {
	Index int `json:"index"`

	// Elapsed covers the document loop only, not the memory snapshots around it.
	Elapsed time.Duration `json:"elapsed_ns"`

	// Objects and Bytes are the live heap deltas between the snapshots taken before and after the loop.
	Objects int64 `json:"objects"`
	Bytes   int64 `json:"bytes"`

	Files int `json:"files"`
	Lines int `json:"lines"`
	Chars int `json:"chars"`

	// CacheSize is the prediction cache size after the last document, measured outside of the timed section.
	CacheSize int `json:"cache_size"`

	Fallbacks    int `json:"fallbacks"`
	SyntaxErrors int `json:"syntax_errors"`

	Documents []DocumentResult `json:"documents"`
}

// RunTrial parses every document of docs once, in order.
func (r *Runner) RunTrial(ctx context.Context, docs []*Document, index int) (TrialResult, error) {
	_, span := r.options.tracer.Start(ctx, "trial")
	span.SetAttributes(attribute.Int("trial", index))
	defer span.End()

	res := TrialResult{
		Index:     index,
		Documents: make([]DocumentResult, 0, len(docs)),
	}

	before, err := r.options.profiler.Snapshot()
	if err != nil {
		return res, fmt.Errorf("could not take memory snapshot: %w", err)
	}

	cache := r.Engine.Cache()

	start := time.Now()

	for _, doc := range docs {
		if r.Config.ResetPerDocument {
			cache.Reset()
		}

		docRes, err := r.ParseDocument(doc)
		if err != nil {
			return res, fmt.Errorf("could not parse %s: %w", doc.Name, err)
		}

		res.Files++
		res.Lines += doc.Lines
		res.Chars += len(doc.Content)

		if docRes.Fallback {
			res.Fallbacks++
		}
		res.SyntaxErrors += docRes.SyntaxErrors

		res.Documents = append(res.Documents, docRes)
	}

	res.Elapsed = time.Since(start)
	res.CacheSize = cache.Size()

	after, err := r.options.profiler.Snapshot()
	if err != nil {
		return res, fmt.Errorf("could not take memory snapshot: %w", err)
	}

	res.Objects = after.Objects - before.Objects
	res.Bytes = after.Bytes - before.Bytes

	span.SetAttributes(
		attribute.Int("fallbacks", res.Fallbacks),
		attribute.Int("syntax_errors", res.SyntaxErrors),
		attribute.Int64("elapsed_ns", res.Elapsed.Nanoseconds()))

	for _, d := range res.Documents {
		if d.ExactRequired {
			r.options.logger.Debug("Document required LL prediction", zap.String("file", d.Name))
		}
	}

	r.options.logger.Debug("Trial completed",
		zap.Int("trial", index),
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("fallbacks", res.Fallbacks),
		zap.Int("syntax_errors", res.SyntaxErrors))

	return res, nil
}
