package calc_test

import (
	"testing"

	"github.com/giornetta/parsebench/benchmark"
	"github.com/giornetta/parsebench/grammars/calc"
)

const baseFolder = "testdata/"

var table = []string{
	baseFolder + "valid.calc",
	baseFolder + "ambiguous.calc",
	baseFolder + "invalid.calc",
}

func BenchmarkParse(b *testing.B) {
	benchmark.Matrix(b, calc.New, "program", table)
}

func TestProfile(t *testing.T) {
	benchmark.Profile(t, calc.New, "program", baseFolder+"ambiguous.calc")
}
