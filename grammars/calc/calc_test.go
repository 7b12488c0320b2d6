package calc_test

import (
	"os"
	"testing"

	"github.com/giornetta/parsebench"
	"github.com/giornetta/parsebench/grammars/calc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string, mode parsebench.PredictionMode, strategy parsebench.ErrorStrategy) (*parsebench.Parser, error) {
	t.Helper()

	lang, err := calc.New()
	require.NoError(t, err)

	p, err := parsebench.NewEngine(lang).NewParser("test.calc", []byte(src),
		parsebench.WithPredictionMode(mode),
		parsebench.WithErrorStrategy(strategy))
	require.NoError(t, err)

	_, err = p.Parse("program")
	return p, err
}

func TestCalc(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		sllValid bool
		errors   int
	}{
		{name: "empty", src: "", sllValid: true},
		{name: "comment only", src: "# nothing\n", sllValid: true},
		{name: "print", src: "print 1 + 2 * (3 - 4) / 5;", sllValid: true},
		{name: "negation", src: "--1;", sllValid: true},
		{name: "keyword prefix", src: "printer = 1;", sllValid: false},
		{name: "assignment", src: "x = 1;", sllValid: false},
		{name: "call", src: "print f();", sllValid: false},
		{name: "nested calls", src: "print f(g(1), h(2, 3));", sllValid: false},
		{name: "missing semicolon", src: "print 1", errors: 1},
		{name: "unbalanced", src: "print (1 + 2;", errors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.src, parsebench.SLL, parsebench.BailErrorStrategy)
			if tt.sllValid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, parsebench.ErrParseCancelled)
			}

			p, err := parse(t, tt.src, parsebench.LL, parsebench.RecoverErrorStrategy)
			require.NoError(t, err)
			assert.Equal(t, tt.errors, p.NumberOfSyntaxErrors())
		})
	}
}

func TestCalc_Testdata(t *testing.T) {
	tests := []struct {
		file   string
		errors int
	}{
		{file: "valid.calc", errors: 0},
		{file: "ambiguous.calc", errors: 0},
		{file: "invalid.calc", errors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			src, err := os.ReadFile(baseFolder + tt.file)
			require.NoError(t, err)

			p, err := parse(t, string(src), parsebench.LL, parsebench.RecoverErrorStrategy)
			require.NoError(t, err)
			assert.Equal(t, tt.errors, p.NumberOfSyntaxErrors())
		})
	}
}
