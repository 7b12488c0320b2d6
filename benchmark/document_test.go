package benchmark_test

import (
	"path/filepath"
	"testing"

	"github.com/giornetta/parsebench/benchmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := benchmark.NewDocument("a.calc", []byte("x = 1;\ny = 2;\n"))

	assert.Equal(t, "a.calc", doc.Name)
	assert.Equal(t, 2, doc.Lines)
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "print 1;")
	b := writeFile(t, dir, filepath.Join("nested", "b.calc"), "print 2;")
	writeFile(t, dir, "c.json", "{}")
	writeFile(t, dir, "d-template.calc", "print 3;")
	writeFile(t, dir, "e.calc.bak", "print 4;")

	files, err := benchmark.FindFiles([]string{dir}, `.*\.calc`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)

	// A file named directly, and again through its directory, is listed once.
	files, err = benchmark.FindFiles([]string{a, dir}, `.*\.calc`)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, a, files[0])

	files, err = benchmark.FindFiles([]string{dir}, `.*\.json`)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFindFiles_Errors(t *testing.T) {
	_, err := benchmark.FindFiles([]string{t.TempDir()}, "(")
	assert.Error(t, err)

	_, err = benchmark.FindFiles([]string{filepath.Join(t.TempDir(), "missing")}, `.*`)
	assert.Error(t, err)
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.calc", "print 1;\n")

	docs, err := benchmark.LoadDocuments([]string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, path, docs[0].Name)
	assert.Equal(t, "print 1;\n", string(docs[0].Content))
	assert.Equal(t, 1, docs[0].Lines)

	_, err = benchmark.LoadDocuments([]string{filepath.Join(dir, "missing.calc")})
	assert.Error(t, err)
}
