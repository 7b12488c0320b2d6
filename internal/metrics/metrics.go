// Package metrics exports the measurements of a run in the Prometheus text format.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/giornetta/parsebench/benchmark"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parsebench"

// Recorder is a benchmark.Observer that accumulates trial measurements in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	documents     *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	exactRequired *prometheus.CounterVec
	syntaxErrors  *prometheus.CounterVec
	trialDuration *prometheus.HistogramVec
	cacheStates   *prometheus.GaugeVec
	heapBytes     *prometheus.GaugeVec
	heapObjects   *prometheus.GaugeVec
}

func NewRecorder(grammar string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	labels := prometheus.Labels{"grammar": grammar}

	return &Recorder{
		registry: reg,

		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "documents_total",
			Help:        "Documents parsed",
			ConstLabels: labels,
		}, []string{"batch"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "fallbacks_total",
			Help:        "Documents parsed again with LL prediction after SLL prediction gave up",
			ConstLabels: labels,
		}, []string{"batch"}),
		exactRequired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "exact_required_total",
			Help:        "Valid documents that needed LL prediction",
			ConstLabels: labels,
		}, []string{"batch"}),
		syntaxErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "syntax_errors_total",
			Help:        "Syntax errors reported by LL parses",
			ConstLabels: labels,
		}, []string{"batch"}),
		trialDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "trial_duration_seconds",
			Help:        "Wall time of one pass over the documents",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0005, 2, 16),
		}, []string{"batch"}),
		cacheStates: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "prediction_cache_states",
			Help:        "Prediction cache size at the end of the last trial",
			ConstLabels: labels,
		}, []string{"batch"}),
		heapBytes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "heap_delta_bytes",
			Help:        "Live heap bytes retained by the last trial",
			ConstLabels: labels,
		}, []string{"batch"}),
		heapObjects: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "heap_delta_objects",
			Help:        "Live heap objects retained by the last trial",
			ConstLabels: labels,
		}, []string{"batch"}),
	}
}

func (r *Recorder) ObserveTrial(batch int, t benchmark.TrialResult) {
	b := strconv.Itoa(batch)

	r.documents.WithLabelValues(b).Add(float64(t.Files))
	r.fallbacks.WithLabelValues(b).Add(float64(t.Fallbacks))
	r.syntaxErrors.WithLabelValues(b).Add(float64(t.SyntaxErrors))
	r.trialDuration.WithLabelValues(b).Observe(t.Elapsed.Seconds())
	r.heapBytes.WithLabelValues(b).Set(float64(t.Bytes))
	r.heapObjects.WithLabelValues(b).Set(float64(t.Objects))

	var exact int
	for _, d := range t.Documents {
		if d.ExactRequired {
			exact++
		}
	}
	r.exactRequired.WithLabelValues(b).Add(float64(exact))

	r.cacheStates.WithLabelValues(b).Set(float64(t.CacheSize))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteFile stores the current values of every metric at path.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics: %w", err)
	}

	return nil
}
