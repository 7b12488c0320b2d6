package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/google/pprof/profile"
)

// MemorySnapshot counts live heap objects and the bytes they hold.
type MemorySnapshot struct {
	Objects int64
	Bytes   int64
}

// MemoryProfiler samples the live heap. Implementations force a full collection before sampling.
type MemoryProfiler interface {
	Snapshot() (MemorySnapshot, error)
}

// NewMemoryProfiler returns the profiler named by kind. dir is only used by heap dumps.
func NewMemoryProfiler(kind string, dir string) (MemoryProfiler, error) {
	switch kind {
	case MemoryRuntime, "":
		return RuntimeProfiler{}, nil
	case MemoryHeapDump:
		return NewHeapDumpProfiler(dir), nil
	case MemoryNone:
		return NopProfiler{}, nil
	default:
		return nil, fmt.Errorf("unknown memory profiler %q", kind)
	}
}

// RuntimeProfiler reads the runtime's own heap accounting.
type RuntimeProfiler struct{}

func (RuntimeProfiler) Snapshot() (MemorySnapshot, error) {
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemorySnapshot{
		Objects: int64(m.HeapObjects),
		Bytes:   int64(m.HeapAlloc),
	}, nil
}

// HeapDumpProfiler writes a heap profile to Dir and sums its in-use samples.
// Dumps are removed once read unless Keep is set.
type HeapDumpProfiler struct {
	Dir  string
	Keep bool

	seq int
}

// NewHeapDumpProfiler returns a HeapDumpProfiler writing to dir. It sets runtime.MemProfileRate to 1 so that
// every allocation is recorded and the dumps hold the full heap rather than a 512 KiB sample. This slows
// down every allocation of the process from then on.
func NewHeapDumpProfiler(dir string) *HeapDumpProfiler {
	runtime.MemProfileRate = 1

	return &HeapDumpProfiler{Dir: dir}
}

func (h *HeapDumpProfiler) Snapshot() (MemorySnapshot, error) {
	runtime.GC()

	dir := h.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	h.seq++
	path := filepath.Join(dir, fmt.Sprintf("heap-%s-%03d.pb.gz", time.Now().Format("20060102T150405"), h.seq))

	if err := writeHeapProfile(path); err != nil {
		return MemorySnapshot{}, err
	}
	if !h.Keep {
		defer os.Remove(path)
	}

	return readHeapProfile(path)
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create heap dump: %w", err)
	}
	defer f.Close()

	if err := pprof.Lookup("heap").WriteTo(f, 0); err != nil {
		return fmt.Errorf("could not write heap dump: %w", err)
	}

	return f.Close()
}

func readHeapProfile(path string) (MemorySnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return MemorySnapshot{}, fmt.Errorf("could not open heap dump: %w", err)
	}
	defer f.Close()

	p, err := profile.Parse(f)
	if err != nil {
		return MemorySnapshot{}, fmt.Errorf("could not parse heap dump: %w", err)
	}

	objects, bytes := -1, -1
	for i, st := range p.SampleType {
		switch st.Type {
		case "inuse_objects":
			objects = i
		case "inuse_space":
			bytes = i
		}
	}
	if objects < 0 || bytes < 0 {
		return MemorySnapshot{}, fmt.Errorf("heap dump %s has no in-use samples", path)
	}

	var s MemorySnapshot
	for _, sample := range p.Sample {
		s.Objects += sample.Value[objects]
		s.Bytes += sample.Value[bytes]
	}

	return s, nil
}

// NopProfiler always reports an empty heap.
type NopProfiler struct{}

func (NopProfiler) Snapshot() (MemorySnapshot, error) {
	return MemorySnapshot{}, nil
}
