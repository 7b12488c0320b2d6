package benchmark_test

import (
	"os"
	"runtime"
	"testing"

	"github.com/giornetta/parsebench/benchmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeProfiler(t *testing.T) {
	s, err := benchmark.RuntimeProfiler{}.Snapshot()
	require.NoError(t, err)

	assert.Positive(t, s.Objects)
	assert.Positive(t, s.Bytes)
}

func TestHeapDumpProfiler(t *testing.T) {
	dir := t.TempDir()
	p := &benchmark.HeapDumpProfiler{Dir: dir}

	s, err := p.Snapshot()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.Objects, int64(0))
	assert.GreaterOrEqual(t, s.Bytes, int64(0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHeapDumpProfiler_Keep(t *testing.T) {
	dir := t.TempDir()
	p := &benchmark.HeapDumpProfiler{Dir: dir, Keep: true}

	for i := 0; i < 2; i++ {
		_, err := p.Snapshot()
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestNewHeapDumpProfiler_RecordsEveryAllocation(t *testing.T) {
	rate := runtime.MemProfileRate
	t.Cleanup(func() { runtime.MemProfileRate = rate })

	p, err := benchmark.NewMemoryProfiler(benchmark.MemoryHeapDump, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, runtime.MemProfileRate)

	before, err := p.Snapshot()
	require.NoError(t, err)

	retained := make([][]byte, 10000)
	for i := range retained {
		retained[i] = make([]byte, 64)
	}

	after, err := p.Snapshot()
	require.NoError(t, err)
	runtime.KeepAlive(retained)

	assert.GreaterOrEqual(t, after.Objects-before.Objects, int64(5000))
	assert.GreaterOrEqual(t, after.Bytes-before.Bytes, int64(64*5000))
}

func TestNopProfiler(t *testing.T) {
	s, err := benchmark.NopProfiler{}.Snapshot()
	require.NoError(t, err)
	assert.Zero(t, s)
}

func TestNewMemoryProfiler(t *testing.T) {
	p, err := benchmark.NewMemoryProfiler(benchmark.MemoryRuntime, "")
	require.NoError(t, err)
	assert.IsType(t, benchmark.RuntimeProfiler{}, p)

	rate := runtime.MemProfileRate
	t.Cleanup(func() { runtime.MemProfileRate = rate })

	p, err = benchmark.NewMemoryProfiler(benchmark.MemoryHeapDump, "dumps")
	require.NoError(t, err)
	require.IsType(t, &benchmark.HeapDumpProfiler{}, p)
	assert.Equal(t, "dumps", p.(*benchmark.HeapDumpProfiler).Dir)

	p, err = benchmark.NewMemoryProfiler(benchmark.MemoryNone, "")
	require.NoError(t, err)
	assert.IsType(t, benchmark.NopProfiler{}, p)

	_, err = benchmark.NewMemoryProfiler("jmap", "")
	assert.Error(t, err)
}

func TestRunTrial_MeasuresMemory(t *testing.T) {
	cfg := calcConfig()
	cfg.BuildTrees = true

	r := newCalcRunner(t, cfg, benchmark.WithMemoryProfiler(&sequenceProfiler{
		snapshots: []benchmark.MemorySnapshot{{Objects: 10, Bytes: 100}, {Objects: 25, Bytes: 180}},
	}))

	res, err := r.RunTrial(t.Context(), loadCalc(t, "valid.calc"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Objects)
	assert.Equal(t, int64(80), res.Bytes)
}

type sequenceProfiler struct {
	snapshots []benchmark.MemorySnapshot
	calls     int
}

func (p *sequenceProfiler) Snapshot() (benchmark.MemorySnapshot, error) {
	s := p.snapshots[p.calls]
	p.calls++
	return s, nil
}
