package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/giornetta/parsebench/benchmark"
	"github.com/giornetta/parsebench/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoArguments(t *testing.T) {
	inv, warnings, err := cli.Parse(nil, benchmark.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, inv.Help)
}

func TestParse_Help(t *testing.T) {
	inv, _, err := cli.Parse([]string{"calc", "-help"}, benchmark.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, inv.Help)
}

func TestParse_DefaultsWithoutOptions(t *testing.T) {
	inv, warnings, err := cli.Parse([]string{"calc", "program"}, benchmark.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.False(t, inv.Help)

	want := benchmark.DefaultConfig()
	want.Grammar = "calc"
	want.StartRule = "program"
	assert.Equal(t, want, inv.Config)
}

func TestParse_Options(t *testing.T) {
	args := []string{
		"calc", "program",
		"-files", `.*\.txt`,
		"-showfiles", "-tokens", "-timing",
		"-nbatches", "2",
		"-trials", "7",
		"-skip", "2",
		"-wipedfa", "-wipefiledfa", "-nodfa", "-trees",
		"-memory", "heapdump",
		"-heapdir", "dumps",
		"-metrics", "m.prom",
		"-trace", "t.json",
		"-cpuprofile", "cpu.out",
		"-json", "run.json",
		"-v",
		"dir1", "dir2",
	}

	inv, warnings, err := cli.Parse(args, benchmark.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	cfg := inv.Config
	assert.Equal(t, "calc", cfg.Grammar)
	assert.Equal(t, "program", cfg.StartRule)
	assert.Equal(t, []string{"dir1", "dir2"}, cfg.Inputs)
	assert.Equal(t, `.*\.txt`, cfg.FilePattern)
	assert.True(t, cfg.ShowFileNames)
	assert.True(t, cfg.ShowTokens)
	assert.True(t, cfg.DocTiming)
	assert.Equal(t, 2, cfg.Batches)
	assert.Equal(t, 7, cfg.Trials)
	assert.Equal(t, 2, cfg.Skip)
	assert.True(t, cfg.ResetPerTrial)
	assert.True(t, cfg.ResetPerDocument)
	assert.True(t, cfg.DisableCache)
	assert.True(t, cfg.BuildTrees)
	assert.Equal(t, benchmark.MemoryHeapDump, cfg.Memory)
	assert.Equal(t, "dumps", cfg.HeapDumpDir)
	assert.Equal(t, "m.prom", cfg.MetricsFile)
	assert.Equal(t, "t.json", cfg.TraceFile)
	assert.Equal(t, "cpu.out", cfg.CPUProfile)
	assert.Equal(t, "run.json", cfg.JSONFile)
	assert.True(t, cfg.Verbose)
}

func TestParse_NegatedAndAlias(t *testing.T) {
	inv, warnings, err := cli.Parse([]string{"calc", "program", "-trees", "-no-trees", "-batchsize", "9", "in"}, benchmark.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.False(t, inv.Config.BuildTrees)
	assert.Equal(t, 9, inv.Config.Trials)
}

func TestParse_SkipsMalformedArguments(t *testing.T) {
	args := []string{
		"calc", "program",
		"-bogus",
		"-trials", "many",
		"-no-files",
		"-skip", "3",
		"dir1",
		"-files",
	}

	inv, warnings, err := cli.Parse(args, benchmark.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, warnings, 4)

	var optErr *cli.OptionError
	reasons := make(map[string]string)
	for _, w := range warnings {
		require.True(t, errors.As(w, &optErr))
		reasons[optErr.Arg] = optErr.Reason
	}
	assert.Equal(t, "unknown option", reasons["-bogus"])
	assert.Contains(t, reasons["-trials"], "not an integer")
	assert.Equal(t, "unknown option", reasons["-no-files"])
	assert.Equal(t, "missing value", reasons["-files"])

	// Everything else still applies, and skipped options keep the defaults.
	cfg := inv.Config
	assert.Equal(t, 5, cfg.Trials)
	assert.Equal(t, 3, cfg.Skip)
	assert.Equal(t, `.*\.calc`, cfg.FilePattern)
	assert.Equal(t, []string{"dir1"}, cfg.Inputs)
}

func TestParse_MissingStartRule(t *testing.T) {
	_, _, err := cli.Parse([]string{"calc"}, benchmark.DefaultConfig())
	assert.Error(t, err)
}

func TestParse_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trials: 12\nskip: 4\n"), 0o644))

	// Options after -config override the file, options before it are overridden.
	inv, warnings, err := cli.Parse([]string{"calc", "program", "-trials", "3", "-config", path, "-skip", "2"}, benchmark.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 12, inv.Config.Trials)
	assert.Equal(t, 2, inv.Config.Skip)

	_, warnings, err = cli.Parse([]string{"calc", "program", "-config", filepath.Join(t.TempDir(), "missing.yaml")}, benchmark.DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	cli.Usage(&out)

	assert.Contains(t, out.String(), "usage: parsebench <grammar> <startRule>")
	for _, o := range cli.Options {
		assert.Contains(t, out.String(), o.Name)
	}
}
