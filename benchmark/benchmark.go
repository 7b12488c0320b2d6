package benchmark

import (
	"context"
	"fmt"
	"path"
	"testing"

	"github.com/giornetta/parsebench"
)

// Matrix benchmarks every file of table under each cache and tree building configuration.
func Matrix(b *testing.B, newLanguage func() (*parsebench.Language, error), startRule string, table []string) {
	lang, err := newLanguage()
	if err != nil {
		b.Fatalf("could not build language: %v", err)
	}

	b.Run(fmt.Sprintf("grammar=%s", lang.Name), func(b *testing.B) {
		for _, filename := range table {
			b.Run(fmt.Sprintf("file=%s", path.Base(filename)), func(b *testing.B) {
				for _, disableCache := range []bool{false, true} {
					b.Run(fmt.Sprintf("cache=%t", !disableCache), func(b *testing.B) {
						for _, trees := range []bool{false, true} {
							b.Run(fmt.Sprintf("trees=%t", trees), func(b *testing.B) {
								cfg := DefaultConfig()
								cfg.Grammar = lang.Name
								cfg.StartRule = startRule
								cfg.DisableCache = disableCache
								cfg.BuildTrees = trees

								Run(b, NewEngine(lang, disableCache), cfg, filename)
							})
						}
					})
				}
			})
		}
	})
}

// Run benchmarks one trial over filename per iteration, sharing the engine's prediction cache across iterations.
func Run(b *testing.B, e Engine, cfg Config, filename string) {
	b.StopTimer()
	b.ResetTimer()

	docs, err := LoadDocuments([]string{filename})
	if err != nil {
		b.Fatalf("could not read source file %s: %v", filename, err)
	}

	r := NewRunner(e, cfg, WithMemoryProfiler(NopProfiler{}))

	ctx := context.Background()

	b.SetBytes(int64(len(docs[0].Content)))
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		if _, err := r.RunTrial(ctx, docs, i); err != nil {
			b.Fatalf("could not parse source file: %v", err)
		}
	}
}

// Profile parses filename once with a cold cache, for use under go test -cpuprofile.
func Profile(t *testing.T, newLanguage func() (*parsebench.Language, error), startRule string, filename string) {
	lang, err := newLanguage()
	if err != nil {
		t.Fatalf("could not build language: %v", err)
	}

	docs, err := LoadDocuments([]string{filename})
	if err != nil {
		t.Fatalf("could not read source file %s: %v", filename, err)
	}

	cfg := DefaultConfig()
	cfg.Grammar = lang.Name
	cfg.StartRule = startRule

	r := NewRunner(NewEngine(lang, false), cfg, WithMemoryProfiler(NopProfiler{}))

	if _, err := r.RunTrial(context.Background(), docs, 0); err != nil {
		t.Fatalf("could not parse source: %v", err)
	}
}
