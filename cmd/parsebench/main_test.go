package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giornetta/parsebench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var calcData = filepath.Join("..", "..", "grammars", "calc", "testdata")

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "usage: parsebench")
}

func TestRun_UnknownGrammar(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"cobol", "program", calcData}, &out)

	var notFound *parsebench.GrammarNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, notFound.Available, "calc")
	assert.Contains(t, notFound.Available, "json")
}

func TestRun_Calc(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "run.json")
	metricsFile := filepath.Join(dir, "metrics.prom")
	traceFile := filepath.Join(dir, "trace.json")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"calc", "program",
		"-trials", "3",
		"-nbatches", "2",
		"-memory", "none",
		"-unknown",
		"-json", jsonFile,
		"-metrics", metricsFile,
		"-trace", traceFile,
		calcData,
	}, &out)
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "BATCH 1\n")
	assert.Contains(t, report, "BATCH 2\n")
	assert.Equal(t, 6, strings.Count(report, "Parsed 3 files"))
	assert.Equal(t, 2, strings.Count(report, "(first 1 trials skipped for warm-up)"))
	assert.Contains(t, report, "Overall average parse")

	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)

	var res struct {
		Grammar string `json:"grammar"`
		Batches []struct {
			Trials []struct {
				Fallbacks int `json:"fallbacks"`
			} `json:"trials"`
		} `json:"batches"`
	}
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "calc", res.Grammar)
	require.Len(t, res.Batches, 2)
	assert.Equal(t, 2, res.Batches[0].Trials[0].Fallbacks)

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "parsebench_fallbacks_total")

	trace, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(trace), `"Name": "batch"`)
}

func TestRun_JSONGrammar(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{
		"json", "json",
		"-files", `.*\.json`,
		"-trials", "1",
		"-memory", "none",
		"-timing",
		filepath.Join("..", "..", "grammars", "json", "testdata"),
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Parsed 2 files")
	assert.Contains(t, out.String(), "valid.json\n")
}
