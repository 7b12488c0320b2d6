package benchmark_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/giornetta/parsebench/benchmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Trial(t *testing.T) {
	var out bytes.Buffer
	r := benchmark.NewReporter(&out)

	r.Trial(benchmark.TrialResult{
		Elapsed: 2 * time.Second,
		Files:   3,
		Lines:   4000,
		Chars:   120000,
		Objects: 1234,
		Bytes:   -5678,
	})

	assert.Equal(t,
		"Parsed 3 files 4,000 lines 120,000 bytes in 2000ms at     2,000 lines/sec     60,000 chars/sec instances     1,234 heap        -5,678 bytes\n",
		out.String())
}

func TestReporter_Summary(t *testing.T) {
	var out bytes.Buffer
	r := benchmark.NewReporter(&out)

	r.Summary(benchmark.Summarize([]time.Duration{time.Millisecond, 3 * time.Millisecond, 5 * time.Millisecond}, 1))
	r.Overall(benchmark.Statistics{Mean: 1500 * time.Microsecond})

	assert.Equal(t,
		"average parse 4.000ms, min 1.000ms, stddev=1.414ms (first 1 trials skipped for warm-up)\n"+
			"Overall average parse 1.500ms, stddev=0.000ms\n",
		out.String())
}

func TestReporter_DocumentTimings(t *testing.T) {
	var out bytes.Buffer
	benchmark.NewReporter(&out).DocumentTimings([]benchmark.DocumentResult{
		{Name: "a.calc", Bytes: 10, Elapsed: 1500, CacheBefore: 0, CacheAfter: 7},
		{Name: "b.calc", Bytes: 20, Elapsed: 900, CacheBefore: 7, CacheAfter: 9},
	})

	assert.Equal(t, "10 1500 0 7 a.calc\n20 900 7 9 b.calc\n", out.String())
}

func TestWriteJSON(t *testing.T) {
	cfg := calcConfig()
	cfg.Trials = 2
	cfg.Skip = 0

	res, err := newCalcRunner(t, cfg).Run(t.Context(), loadCalc(t, "ambiguous.calc"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, benchmark.WriteJSON(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded benchmark.RunResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, res.ID, decoded.ID)
	require.Len(t, decoded.Batches, 1)
	require.Len(t, decoded.Batches[0].Trials, 2)
	assert.True(t, decoded.Batches[0].Trials[0].Documents[0].Fallback)
	assert.True(t, decoded.Batches[0].Trials[0].Documents[0].ExactRequired)
}
