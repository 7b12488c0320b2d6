// Package cli parses the command line of parsebench.
//
// Options use a single dash and are looked up in a fixed table. Parsing is lenient:
// an unknown option, a missing value or a malformed integer is reported as a warning,
// the offending argument is skipped and the remaining ones are still processed.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/giornetta/parsebench/benchmark"
)

type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgString
	ArgInt
)

func (k ArgKind) String() string {
	switch k {
	case ArgNone:
		return "none"
	case ArgString:
		return "string"
	case ArgInt:
		return "int"
	default:
		return "unknown"
	}
}

// Option is one entry of the option table.
type Option struct {
	Name  string
	Kind  ArgKind
	Usage string

	apply func(inv *Invocation, value string, n int, on bool) error
}

// OptionError describes an argument that was skipped.
type OptionError struct {
	Arg    string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("ignoring option %s: %s", e.Arg, e.Reason)
}

// Invocation is the result of parsing a command line.
type Invocation struct {
	Config benchmark.Config
	Help   bool
}

func boolOpt(name, usage string, set func(c *benchmark.Config, on bool)) Option {
	return Option{Name: name, Kind: ArgNone, Usage: usage, apply: func(inv *Invocation, _ string, _ int, on bool) error {
		set(&inv.Config, on)
		return nil
	}}
}

func stringOpt(name, usage string, set func(c *benchmark.Config, v string)) Option {
	return Option{Name: name, Kind: ArgString, Usage: usage, apply: func(inv *Invocation, v string, _ int, _ bool) error {
		set(&inv.Config, v)
		return nil
	}}
}

func intOpt(name, usage string, set func(c *benchmark.Config, n int)) Option {
	return Option{Name: name, Kind: ArgInt, Usage: usage, apply: func(inv *Invocation, _ string, n int, _ bool) error {
		set(&inv.Config, n)
		return nil
	}}
}

// Options is the option table, in usage order.
var Options = []Option{
	stringOpt("-files", "regexp matched against file names", func(c *benchmark.Config, v string) { c.FilePattern = v }),
	boolOpt("-showfiles", "print each file name before parsing it", func(c *benchmark.Config, on bool) { c.ShowFileNames = on }),
	boolOpt("-tokens", "print the tokens of each file", func(c *benchmark.Config, on bool) { c.ShowTokens = on }),
	boolOpt("-timing", "print per file timings and cache sizes", func(c *benchmark.Config, on bool) { c.DocTiming = on }),
	intOpt("-nbatches", "number of batches", func(c *benchmark.Config, n int) { c.Batches = n }),
	intOpt("-trials", "number of trials per batch", func(c *benchmark.Config, n int) { c.Trials = n }),
	intOpt("-batchsize", "alias of -trials", func(c *benchmark.Config, n int) { c.Trials = n }),
	intOpt("-skip", "number of warm-up trials left out of the averages", func(c *benchmark.Config, n int) { c.Skip = n }),
	boolOpt("-wipedfa", "reset the prediction cache before every trial", func(c *benchmark.Config, on bool) { c.ResetPerTrial = on }),
	boolOpt("-wipefiledfa", "reset the prediction cache before every file", func(c *benchmark.Config, on bool) { c.ResetPerDocument = on }),
	boolOpt("-nodfa", "never store predictions", func(c *benchmark.Config, on bool) { c.DisableCache = on }),
	boolOpt("-trees", "build parse trees", func(c *benchmark.Config, on bool) { c.BuildTrees = on }),
	stringOpt("-memory", "memory profiler: runtime, heapdump or none", func(c *benchmark.Config, v string) { c.Memory = v }),
	stringOpt("-heapdir", "directory for heap dumps", func(c *benchmark.Config, v string) { c.HeapDumpDir = v }),
	{Name: "-config", Kind: ArgString, Usage: "YAML file applied over the options given so far", apply: func(inv *Invocation, v string, _ int, _ bool) error {
		cfg, err := benchmark.LoadConfig(v, inv.Config)
		if err != nil {
			return err
		}
		inv.Config = cfg
		return nil
	}},
	stringOpt("-metrics", "write Prometheus metrics to this file", func(c *benchmark.Config, v string) { c.MetricsFile = v }),
	stringOpt("-trace", "write OpenTelemetry spans to this file", func(c *benchmark.Config, v string) { c.TraceFile = v }),
	stringOpt("-cpuprofile", "write a CPU profile to this file", func(c *benchmark.Config, v string) { c.CPUProfile = v }),
	stringOpt("-json", "write the run result as JSON to this file", func(c *benchmark.Config, v string) { c.JSONFile = v }),
	boolOpt("-v", "verbose logging", func(c *benchmark.Config, on bool) { c.Verbose = on }),
}

func lookup(name string) (Option, bool) {
	for _, o := range Options {
		if o.Name == name {
			return o, true
		}
	}

	return Option{}, false
}

// Parse reads args (without the program name) over base.
// The first two positional arguments are the grammar and the start rule, the rest are inputs.
// Skipped arguments are returned as warnings; the error is only set when no run is possible.
func Parse(args []string, base benchmark.Config) (*Invocation, []error, error) {
	inv := &Invocation{Config: base}

	if len(args) == 0 {
		inv.Help = true
		return inv, nil, nil
	}

	var warnings []error
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "-h" || arg == "-help" || arg == "--help" {
			inv.Help = true
			return inv, warnings, nil
		}

		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}

		on := true
		name := arg
		if strings.HasPrefix(arg, "-no-") {
			on = false
			name = "-" + strings.TrimPrefix(arg, "-no-")
		}

		opt, ok := lookup(name)
		if !ok || (!on && opt.Kind != ArgNone) {
			warnings = append(warnings, &OptionError{Arg: arg, Reason: "unknown option"})
			continue
		}

		var value string
		var n int

		if opt.Kind != ArgNone {
			if i+1 >= len(args) {
				warnings = append(warnings, &OptionError{Arg: arg, Reason: "missing value"})
				continue
			}
			i++
			value = args[i]
		}

		if opt.Kind == ArgInt {
			v, err := strconv.Atoi(value)
			if err != nil {
				warnings = append(warnings, &OptionError{Arg: arg, Reason: fmt.Sprintf("%q is not an integer", value)})
				continue
			}
			n = v
		}

		if err := opt.apply(inv, value, n, on); err != nil {
			warnings = append(warnings, &OptionError{Arg: arg, Reason: err.Error()})
		}
	}

	if len(positional) < 2 {
		return inv, warnings, fmt.Errorf("expected a grammar and a start rule, got %d arguments", len(positional))
	}

	inv.Config.Grammar = positional[0]
	inv.Config.StartRule = positional[1]
	inv.Config.Inputs = append(inv.Config.Inputs, positional[2:]...)

	return inv, warnings, nil
}

// Usage prints the command line synopsis and the option table.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: parsebench <grammar> <startRule> [options] <file-or-dir>...")
	fmt.Fprintln(w, "boolean options can be negated with -no-, as in -no-trees")
	fmt.Fprintln(w)

	for _, o := range Options {
		arg := ""
		if o.Kind != ArgNone {
			arg = "<" + o.Kind.String() + ">"
		}
		fmt.Fprintf(w, "  %-12s %-9s %s\n", o.Name, arg, o.Usage)
	}
}
