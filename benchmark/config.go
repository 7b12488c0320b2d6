package benchmark

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Memory profiler kinds accepted by Config.Memory.
const (
	MemoryRuntime  = "runtime"
	MemoryHeapDump = "heapdump"
	MemoryNone     = "none"
)

// Config describes one run. It is fixed before the first trial and never modified afterwards.
type Config struct {
	Grammar     string   `yaml:"grammar"`
	StartRule   string   `yaml:"start_rule"`
	Inputs      []string `yaml:"inputs"`
	FilePattern string   `yaml:"file_pattern"`

	ShowFileNames bool `yaml:"show_file_names"`
	ShowTokens    bool `yaml:"show_tokens"`
	// DocTiming prints per-document timings and cache sizes, and logs syntax errors.
	DocTiming bool `yaml:"doc_timing"`

	Batches int `yaml:"batches"`
	Trials  int `yaml:"trials"`
	// Skip is the number of leading trials (and batches) left out of the averages.
	Skip int `yaml:"skip"`

	ResetPerTrial    bool `yaml:"reset_per_trial"`
	ResetPerDocument bool `yaml:"reset_per_document"`
	DisableCache     bool `yaml:"disable_cache"`
	BuildTrees       bool `yaml:"build_trees"`

	Memory      string `yaml:"memory"`
	HeapDumpDir string `yaml:"heap_dump_dir"`

	MetricsFile string `yaml:"metrics_file"`
	TraceFile   string `yaml:"trace_file"`
	CPUProfile  string `yaml:"cpu_profile"`
	JSONFile    string `yaml:"json_file"`

	Verbose bool `yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		FilePattern: `.*\.calc`,
		Batches:     1,
		Trials:      5,
		Skip:        1,
		Memory:      MemoryRuntime,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Trials < 1 {
		errs = append(errs, fmt.Errorf("trials must be at least 1, got %d", c.Trials))
	}
	if c.Batches < 1 {
		errs = append(errs, fmt.Errorf("batches must be at least 1, got %d", c.Batches))
	}
	if c.Skip < 0 {
		errs = append(errs, fmt.Errorf("skip must not be negative, got %d", c.Skip))
	}

	switch c.Memory {
	case MemoryRuntime, MemoryHeapDump, MemoryNone:
	default:
		errs = append(errs, fmt.Errorf("unknown memory profiler %q", c.Memory))
	}

	if _, err := regexp.Compile(c.FilePattern); err != nil {
		errs = append(errs, fmt.Errorf("invalid file pattern: %w", err))
	}

	return errors.Join(errs...)
}

// LoadConfig reads a YAML file over base. Keys missing from the file keep the values of base.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("could not read config: %w", err)
	}

	cfg := base

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("could not decode config %s: %w", path, err)
	}

	return cfg, nil
}
